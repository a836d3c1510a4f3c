package browser

import (
	"fmt"
	"os"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/utils"

	"github.com/playwright-community/playwright-go"
)

// Launcher 浏览器启动器
// 令牌刷新和登录共用一个浏览器实例，上下文按需创建
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewLauncher 启动浏览器
// headless=false 时弹出窗口，供交互式登录使用
func NewLauncher(headless bool) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright failed: %w", err)
	}

	// 查找本地 Chrome
	chromePath := findLocalChrome()

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--window-size=1280,800",
			"--disable-infobars",
			"--disable-extensions",
			"--disable-background-networking",
			"--disable-sync",
			"--disable-translate",
			"--disable-popup-blocking",
		},
	}

	if chromePath != "" {
		launchOptions.ExecutablePath = playwright.String(chromePath)
		utils.Info("[-] 使用本地 Chrome")
	}

	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch browser failed: %w", err)
	}

	return &Launcher{pw: pw, browser: browser}, nil
}

// NewLauncherFromConfig 按全局配置的无头开关启动浏览器
func NewLauncherFromConfig() (*Launcher, error) {
	return NewLauncher(config.Config.Headless)
}

// NewContext 创建浏览器上下文并注入 Cookie
func (l *Launcher) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	context, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		Locale:   playwright.String("en-US"),
		Viewport: &playwright.Size{Width: 1280, Height: 800},
	})
	if err != nil {
		return nil, fmt.Errorf("create context failed: %w", err)
	}

	if len(cookies) > 0 {
		if err := context.AddCookies(cookies); err != nil {
			_ = context.Close()
			return nil, fmt.Errorf("add cookies failed: %w", err)
		}
	}

	return context, nil
}

// Close 关闭浏览器
func (l *Launcher) Close() error {
	if l.browser != nil {
		if err := l.browser.Close(); err != nil {
			utils.Warn(fmt.Sprintf("[-] 关闭浏览器失败: %v", err))
		}
	}
	if l.pw != nil {
		return l.pw.Stop()
	}
	return nil
}

// findLocalChrome 查找本地 Chrome
func findLocalChrome() string {
	paths := []string{
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		os.Getenv("LOCALAPPDATA") + `\Google\Chrome\Application\chrome.exe`,
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range paths {
		if path != "" {
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}
