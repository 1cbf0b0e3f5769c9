package router

import (
	"gambling-ledger/internal/config"
	"gambling-ledger/internal/handler"
	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/middleware"
	"gambling-ledger/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and wires the ledgers to the API.
func SetupRouter(cfg *config.Config, st *store.Store, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	websites := ledger.NewWebsiteList(st)
	machines := ledger.NewMachineList(st)
	gambling := ledger.NewGamblingLedger(st, websites, machines)
	bank := ledger.NewBankLedger(st)
	agg := ledger.NewAggregator(gambling, bank)

	// ====== API ======
	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Users.Codes)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWT.Secret, cfg.Users.Codes),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe)

	gamblingHandler := handler.NewGamblingHandler(gambling, websites, machines)
	protected.GET("/gambling", gamblingHandler.ListGambles)
	protected.POST("/gambling", gamblingHandler.UpsertGamble)
	protected.GET("/gambling/:id", gamblingHandler.GetGamble)
	protected.PUT("/gambling/:id", gamblingHandler.UpdateGamble)
	protected.PUT("/gambling", gamblingHandler.UpdateAllGambles)
	protected.DELETE("/gambling/:id", gamblingHandler.DeleteGamble)
	protected.GET("/websites", gamblingHandler.ListWebsites)
	protected.GET("/machines", gamblingHandler.ListMachines)

	bankHandler := handler.NewBankHandler(bank, agg)
	protected.GET("/bank", bankHandler.ListTransactions)
	protected.POST("/bank", bankHandler.CreateTransaction)
	protected.PUT("/bank", bankHandler.ReplaceTransactions)
	protected.DELETE("/bank/:id", bankHandler.DeleteTransaction)
	protected.GET("/balance", bankHandler.GetBalance)
	protected.GET("/balance/by-site", bankHandler.GetBalanceBySite)

	exportHandler := handler.NewExportHandler(gambling)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	backupHandler := handler.NewBackupHandler(db, st.Dir(), cfg.Backup.Dir, gambling, bank)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.ListLogs)

	return r
}
