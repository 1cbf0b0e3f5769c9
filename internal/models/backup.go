package models

import "time"

// Backup records one data-directory snapshot file.
type Backup struct {
	ID        uint   `gorm:"primaryKey"`
	UserCode  string `gorm:"size:64;index"`
	FileName  string `gorm:"size:255"`
	FilePath  string `gorm:"size:512"`
	Size      int64
	CreatedAt time.Time
}
