package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gambling-ledger/internal/config"
	"gambling-ledger/internal/database"
	"gambling-ledger/internal/router"
	"gambling-ledger/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.AuditLog.Path)); err != nil {
		log.Fatalf("create audit db dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init the CSV table store
	st, err := store.New(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}

	// init the audit database
	db, err := database.Init(cfg.AuditLog)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, st, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
