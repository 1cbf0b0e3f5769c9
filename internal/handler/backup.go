package handler

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gambling-ledger/internal/ledger"
	"gambling-ledger/internal/models"
	"gambling-ledger/internal/store"
	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler snapshots the CSV data directory into zip files and restores
// a user's rows from a snapshot. Snapshot metadata lives in the audit DB.
type BackupHandler struct {
	DB        *gorm.DB
	DataDir   string
	BackupDir string
	Gambling  *ledger.GamblingLedger
	Bank      *ledger.BankLedger
}

func NewBackupHandler(db *gorm.DB, dataDir, backupDir string, g *ledger.GamblingLedger, b *ledger.BankLedger) *BackupHandler {
	return &BackupHandler{
		DB:        db,
		DataDir:   dataDir,
		BackupDir: backupDir,
		Gambling:  g,
		Bank:      b,
	}
}

// CreateBackup zips every CSV table into a new snapshot file.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create backup dir failed")
		return
	}

	fileName := fmt.Sprintf("backup-%s-%s.zip", user, uuid.New().String())
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := zipDataDir(h.DataDir, filePath); err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "write backup file failed")
		return
	}

	info, _ := os.Stat(filePath)

	backup := models.Backup{
		UserCode: user,
		FileName: fileName,
		FilePath: filePath,
	}
	if info != nil {
		backup.Size = info.Size()
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save backup record failed")
		return
	}

	util.Success(c, util.Response{
		"backup": gin.H{
			"id":         backup.ID,
			"file_name":  backup.FileName,
			"size":       backup.Size,
			"created_at": backup.CreatedAt,
		},
	})
}

// ListBackups lists the user's snapshots, newest first.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var list []models.Backup
	if err := h.DB.
		Where("user_code = ?", user).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backups failed")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		b := &list[i]
		items = append(items, gin.H{
			"id":         b.ID,
			"file_name":  b.FileName,
			"size":       b.Size,
			"created_at": b.CreatedAt,
		})
	}

	util.Success(c, util.Response{
		"items": items,
	})
}

func (h *BackupHandler) findBackup(c *gin.Context, user string) (models.Backup, bool) {
	var backup models.Backup
	err := h.DB.
		Where("id = ? AND user_code = ?", c.Param("id"), user).
		First(&backup).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query backup failed")
		}
		return models.Backup{}, false
	}
	return backup, true
}

// DownloadBackup streams a snapshot file.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// DeleteBackup removes a snapshot record and its file.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user)
	if !ok {
		return
	}

	_ = os.Remove(backup.FilePath)
	if err := h.DB.Delete(&backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete backup record failed")
		return
	}

	util.Success(c, util.Response{
		"message": "backup deleted",
	})
}

// RestoreBackup replaces the requesting user's gambling and bank rows with
// the rows the snapshot holds for them. Other users' rows are untouched.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	backup, ok := h.findBackup(c, user)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "gl-restore-*")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "prepare restore failed")
		return
	}
	defer os.RemoveAll(tmpDir)

	if err := unzipTo(backup.FilePath, tmpDir); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read backup file failed")
		return
	}

	snapshot, err := store.New(tmpDir)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "read backup file failed")
		return
	}

	entries, txs, err := userRowsFromSnapshot(snapshot, user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "parse backup data failed")
		return
	}

	if err := h.Gambling.RestoreUser(user, entries); err != nil {
		ledgerError(c, err)
		return
	}
	if err := h.Bank.ReplaceAll(user, txs); err != nil {
		ledgerError(c, err)
		return
	}

	util.Success(c, util.Response{
		"message":       "restore complete",
		"gambles_count": len(entries),
		"bank_count":    len(txs),
	})
}

func userRowsFromSnapshot(snapshot *store.Store, user string) ([]models.GamblingEntry, []models.BankTransaction, error) {
	owned := func(row store.Row) bool { return row["user"] == user }

	gt, err := snapshot.LoadFiltered(ledger.GamblingSchema, owned)
	if err != nil {
		return nil, nil, err
	}
	entries := make([]models.GamblingEntry, 0, len(gt.Rows))
	for _, row := range gt.Rows {
		entries = append(entries, models.GambleFromRow(row))
	}

	bt, err := snapshot.LoadFiltered(ledger.BankSchema, owned)
	if err != nil {
		return nil, nil, err
	}
	txs := make([]models.BankTransaction, 0, len(bt.Rows))
	for _, row := range bt.Rows {
		txs = append(txs, models.BankFromRow(row))
	}

	return entries, txs, nil
}

func zipDataDir(dataDir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		return err
	}
	for _, path := range files {
		if err := addFileToZip(zw, path); err != nil {
			return err
		}
	}
	return nil
}

func addFileToZip(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func unzipTo(src, destDir string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		if err := extractZipFile(f, filepath.Join(destDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(f *zip.File, dest string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
