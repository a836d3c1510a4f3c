package database

import (
	"fmt"

	"github.com/7x11x13/youtube-up/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Account 频道账号
type Account struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Platform   string `gorm:"index" json:"platform"`
	Name       string `json:"name"`
	CookiePath string `json:"cookie_path"`
	Status     int    `json:"status"` // 见 config.AccountStatus*
	CreatedAt  string `json:"created_at"`
}

// UploadRecord 上传历史
type UploadRecord struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	AccountID int    `gorm:"index" json:"account_id"`
	VideoID   string `json:"video_id"` // 平台返回的视频ID
	Title     string `json:"title"`
	FilePath  string `json:"file_path"`
	FileSize  int64  `json:"file_size"`
	Duration  int64  `json:"duration"` // 上传耗时（秒）
	Status    string `json:"status"`   // success / failed
	Error     string `json:"error"`
	CreatedAt string `json:"created_at"`
}

// Init 打开数据库并迁移表结构
func Init() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(config.GetDbPath()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}

	if err := db.AutoMigrate(&Account{}, &UploadRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database failed: %w", err)
	}

	return db, nil
}
