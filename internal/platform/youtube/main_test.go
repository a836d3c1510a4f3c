package youtube

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/7x11x13/youtube-up/internal/config"
)

// TestMain 初始化测试用配置，全局日志器需要 LogPath 才能工作
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "youtube-up-test")
	if err != nil {
		panic(err)
	}
	config.Config = &config.AppConfig{
		DbPath:        filepath.Join(dir, "test.db"),
		CookiePath:    dir,
		LogPath:       dir,
		ThumbnailPath: dir,
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
