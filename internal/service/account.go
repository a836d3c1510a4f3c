package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/database"
	"github.com/7x11x13/youtube-up/internal/platform/youtube"

	"gorm.io/gorm"
)

// AccountService 账号管理
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func (s *AccountService) GetAccounts(ctx context.Context) ([]database.Account, error) {
	var accounts []database.Account
	result := s.db.Find(&accounts)
	if result.Error != nil {
		return nil, fmt.Errorf("query accounts failed: %w", result.Error)
	}
	return accounts, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, id int) (*database.Account, error) {
	var account database.Account
	result := s.db.First(&account, id)
	if result.Error != nil {
		return nil, fmt.Errorf("account not found: %w", result.Error)
	}
	return &account, nil
}

func (s *AccountService) AddAccount(ctx context.Context, name string) (*database.Account, error) {
	if err := os.MkdirAll(config.Config.CookiePath, 0755); err != nil {
		return nil, fmt.Errorf("create cookie directory failed: %w", err)
	}

	account := &database.Account{
		Platform:  config.PlatformYouTube,
		Name:      name,
		Status:    config.AccountStatusInvalid,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("create account failed: %w", err)
		}

		account.CookiePath = config.GetCookiePath(account.ID)

		if err := tx.Model(account).Update("cookie_path", account.CookiePath).Error; err != nil {
			return fmt.Errorf("update cookie path failed: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id int) error {
	result := s.db.Delete(&database.Account{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete account failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}

// ValidateAccount 校验账号Cookie是否有效并更新状态
func (s *AccountService) ValidateAccount(ctx context.Context, id int) (bool, error) {
	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return false, err
	}

	store := youtube.NewCookieStore(account.CookiePath)
	uploader, err := youtube.NewUploader(store, nil, nil)
	if err != nil {
		account.Status = config.AccountStatusInvalid
		s.db.Save(account)
		return false, nil
	}

	valid := uploader.HasValidCookies(ctx)
	if valid {
		account.Status = config.AccountStatusValid
	} else {
		account.Status = config.AccountStatusInvalid
	}
	s.db.Save(account)

	return valid, nil
}

// LoginAccount 交互式登录并保存Cookie
func (s *AccountService) LoginAccount(ctx context.Context, id int) error {
	account, err := s.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}

	if account.CookiePath == "" {
		if err := os.MkdirAll(config.Config.CookiePath, 0755); err != nil {
			return fmt.Errorf("create cookie directory failed: %w", err)
		}
		account.CookiePath = config.GetCookiePath(account.ID)
		if err := s.db.Model(account).Update("cookie_path", account.CookiePath).Error; err != nil {
			return fmt.Errorf("update cookie path failed: %w", err)
		}
	}

	store := youtube.NewCookieStore(account.CookiePath)
	// 已有Cookie文件时先加载，登录只更新白名单条目
	_ = store.Load()
	if err := youtube.Login(ctx, store); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	account.Status = config.AccountStatusValid
	s.db.Save(account)

	return nil
}
