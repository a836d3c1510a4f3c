package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/7x11x13/youtube-up/internal/database"

	"gorm.io/gorm"
)

// HistoryService 上传历史
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// RecordSuccess 记录一次成功上传
func (s *HistoryService) RecordSuccess(ctx context.Context, accountID int, videoID, title, filePath string, duration time.Duration) error {
	var size int64
	if info, err := os.Stat(filePath); err == nil {
		size = info.Size()
	}

	record := &database.UploadRecord{
		AccountID: accountID,
		VideoID:   videoID,
		Title:     title,
		FilePath:  filePath,
		FileSize:  size,
		Duration:  int64(duration.Seconds()),
		Status:    "success",
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("save upload record failed: %w", err)
	}
	return nil
}

// RecordFailure 记录一次失败上传
func (s *HistoryService) RecordFailure(ctx context.Context, accountID int, title, filePath string, uploadErr error) error {
	record := &database.UploadRecord{
		AccountID: accountID,
		Title:     title,
		FilePath:  filePath,
		Status:    "failed",
		Error:     uploadErr.Error(),
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("save upload record failed: %w", err)
	}
	return nil
}

// List 按时间倒序返回上传历史
func (s *HistoryService) List(ctx context.Context, limit int) ([]database.UploadRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []database.UploadRecord
	result := s.db.Order("id DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("query upload records failed: %w", result.Error)
	}
	return records, nil
}
