// Package retry 提供固定间隔的轮询重试
package retry

import (
	"context"
	"time"
)

// Config 重试配置
type Config struct {
	MaxRetries   int           // 最大重试次数
	InitialDelay time.Duration // 每次重试间隔
	TotalTimeout time.Duration // 总超时时间
}

// DefaultConfig 默认重试配置
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 2 * time.Second,
		TotalTimeout: 5 * time.Minute,
	}
}

// Retry 重试器
type Retry struct {
	config *Config
}

// NewRetry 创建重试器
func NewRetry(config *Config) *Retry {
	if config == nil {
		config = DefaultConfig()
	}
	return &Retry{config: config}
}

// Do 执行带重试的操作
func (r *Retry) Do(ctx context.Context, operation func() error) error {
	if r.config.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.TotalTimeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.config.InitialDelay):
			}
		}

		if err := operation(); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return lastErr
}

// DoWithResult 执行带重试的操作并返回结果
func DoWithResult[T any](ctx context.Context, config *Config, operation func() (T, error)) (T, error) {
	var result T
	r := NewRetry(config)
	err := r.Do(ctx, func() error {
		var err error
		result, err = operation()
		return err
	})
	return result, err
}
