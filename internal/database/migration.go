package database

import (
	"fmt"

	"gambling-ledger/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs schema migrations for the gorm-backed models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AuditLog{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
