package youtube

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/platform/browser"
	"github.com/7x11x13/youtube-up/internal/types"
	"github.com/7x11x13/youtube-up/internal/utils"
	"github.com/7x11x13/youtube-up/internal/utils/retry"

	"github.com/playwright-community/playwright-go"
	"github.com/tidwall/gjson"
)

// SessionTokenProvider 会话令牌提供者
// 上传器不关心令牌来源，浏览器自动化只是其中一种实现
type SessionTokenProvider interface {
	Refresh(ctx context.Context, cookies []*Cookie) (string, error)
}

// BrowserTokenProvider 基于浏览器自动化的令牌提供者
// 打开上传页，拦截 grst 请求的响应取出 sessionToken
type BrowserTokenProvider struct {
	config *Config
}

// NewBrowserTokenProvider 创建浏览器令牌提供者
func NewBrowserTokenProvider(cfg *Config) *BrowserTokenProvider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &BrowserTokenProvider{config: cfg}
}

// Refresh 刷新会话令牌
// 浏览器启动失败返回 ProviderUnavailableError，凭据被拒返回 LoginRequiredError
// 整体受 TokenRefreshTimeout 约束，超时视为刷新失败
func (p *BrowserTokenProvider) Refresh(ctx context.Context, cookies []*Cookie) (string, error) {
	launcher, err := browser.NewLauncherFromConfig()
	if err != nil {
		return "", types.NewProviderUnavailableError(err)
	}
	defer launcher.Close()

	browserContext, err := launcher.NewContext(toPlaywrightCookies(cookies))
	if err != nil {
		return "", types.NewProviderUnavailableError(err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return "", types.NewProviderUnavailableError(err)
	}

	// 先挂监听再导航，避免错过响应
	var mu sync.Mutex
	var token string
	page.OnResponse(func(response playwright.Response) {
		if !strings.Contains(response.URL(), sessionTokenRequestURL) {
			return
		}
		body, err := response.Body()
		if err != nil {
			return
		}
		if t := gjson.GetBytes(body, "sessionToken").String(); t != "" {
			mu.Lock()
			token = t
			mu.Unlock()
		}
	})

	if _, err := page.Goto(uploadPageURL); err != nil {
		return "", types.NewProviderUnavailableError(fmt.Errorf("无法打开上传页: %w", err))
	}

	if !strings.Contains(page.URL(), "studio.youtube.com/channel") {
		return "", types.NewLoginRequiredError("get_session_token", fmt.Errorf("无法登录YouTube账号，请重新获取Cookie"))
	}

	// 有界轮询等待令牌捕获
	pollConfig := &retry.Config{
		MaxRetries:   int(p.config.TokenRefreshTimeout / p.config.TokenPollInterval),
		InitialDelay: p.config.TokenPollInterval,
		TotalTimeout: p.config.TokenRefreshTimeout,
	}
	captured, err := retry.DoWithResult(ctx, pollConfig, func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if token == "" {
			return "", fmt.Errorf("尚未捕获会话令牌")
		}
		return token, nil
	})
	if err != nil {
		return "", types.NewProviderUnavailableError(fmt.Errorf("等待会话令牌超时: %w", err))
	}

	utils.InfoWithPlatform(config.PlatformYouTube, "会话令牌已刷新")
	return captured, nil
}

// Login 交互式登录
// 弹出浏览器窗口等待用户完成登录，检测到必需Cookie后写入存储
func Login(ctx context.Context, store *CookieStore) error {
	launcher, err := browser.NewLauncher(false)
	if err != nil {
		return types.NewProviderUnavailableError(err)
	}
	defer launcher.Close()

	browserContext, err := launcher.NewContext(nil)
	if err != nil {
		return types.NewProviderUnavailableError(err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		return types.NewProviderUnavailableError(err)
	}

	if _, err := page.Goto("https://youtube.com"); err != nil {
		return types.NewProviderUnavailableError(fmt.Errorf("无法打开YouTube: %w", err))
	}

	utils.InfoWithPlatform(config.PlatformYouTube, "请在浏览器中完成登录...")

	checker := browser.NewCookieChecker()
	if err := checker.WaitForLoginCookies(ctx, page, browser.YouTubeCookieConfig); err != nil {
		return types.NewLoginRequiredError("login", err)
	}

	cookies, err := browserContext.Cookies("https://youtube.com")
	if err != nil {
		return types.NewLoginRequiredError("login", fmt.Errorf("读取Cookie失败: %w", err))
	}

	for _, c := range cookies {
		if !cookieWhitelist[c.Name] {
			continue
		}
		store.Upsert(&Cookie{
			Domain:            c.Domain,
			IncludeSubdomains: strings.HasPrefix(c.Domain, "."),
			Path:              c.Path,
			Secure:            c.Secure,
			Expires:           int64(c.Expires),
			Name:              c.Name,
			Value:             c.Value,
			HTTPOnly:          c.HttpOnly,
		})
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("保存Cookie失败: %w", err)
	}

	utils.SuccessWithPlatform(config.PlatformYouTube, "登录成功，Cookie已保存")
	return nil
}

// toPlaywrightCookies 存储条目转为浏览器Cookie
func toPlaywrightCookies(cookies []*Cookie) []playwright.OptionalCookie {
	var out []playwright.OptionalCookie
	for _, c := range cookies {
		if !cookieWhitelist[c.Name] {
			continue
		}
		domain := c.Domain
		if domain == "" {
			domain = ".youtube.com"
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		out = append(out, playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(domain),
			Path:     playwright.String(path),
			Secure:   playwright.Bool(c.Secure),
			HttpOnly: playwright.Bool(c.HTTPOnly),
		})
	}
	return out
}
