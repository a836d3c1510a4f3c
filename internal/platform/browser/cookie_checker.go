package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/7x11x13/youtube-up/internal/utils"

	"github.com/playwright-community/playwright-go"
)

// CookieChecker Cookie检测器
type CookieChecker struct {
	checkInterval time.Duration // 检测间隔
	timeout       time.Duration // 超时时间
}

// NewCookieChecker 创建Cookie检测器
func NewCookieChecker() *CookieChecker {
	return &CookieChecker{
		checkInterval: 2 * time.Second, // 检测间隔：2秒/次
		timeout:       5 * time.Minute, // 超时保护：5分钟
	}
}

// NewCookieCheckerWithTimeout 创建带自定义超时的Cookie检测器
func NewCookieCheckerWithTimeout(timeout time.Duration) *CookieChecker {
	return &CookieChecker{
		checkInterval: 2 * time.Second,
		timeout:       timeout,
	}
}

// WaitForLoginCookies 等待登录Cookie出现
// 循环检测：「全量获取→映射判空→全量满足即返回」
func (cc *CookieChecker) WaitForLoginCookies(
	ctx context.Context,
	page playwright.Page,
	config PlatformCookieConfig,
) error {
	timeout := time.After(cc.timeout)
	ticker := time.NewTicker(cc.checkInterval)
	defer ticker.Stop()

	utils.Info(fmt.Sprintf("[-] 开始检测登录Cookie，必需字段: %v", config.GetAllCookies()))

	for {
		select {
		case <-timeout:
			return fmt.Errorf("登录Cookie检测超时（%v），未检测到必需Cookie", cc.timeout)
		case <-ctx.Done():
			return fmt.Errorf("context取消: %w", ctx.Err())
		case <-ticker.C:
			if page == nil {
				return fmt.Errorf("页面已关闭")
			}

			allValid := true
			for _, domainConfig := range config.Domains {
				valid, err := cc.checkDomainCookies(page, domainConfig)
				if err != nil {
					if isBrowserClosedError(err) {
						return fmt.Errorf("浏览器已关闭，终止Cookie检测: %w", err)
					}
					utils.Warn(fmt.Sprintf("[-] 检测域名 %s Cookie失败: %v", domainConfig.Domain, err))
					allValid = false
					break
				}
				if !valid {
					allValid = false
					break
				}
			}

			// 所有域名都满足条件 → 检测通过
			if allValid {
				utils.Info("[-] 检测到所有必需Cookie")
				return nil
			}
		}
	}
}

// checkDomainCookies 检测单个域名的Cookie
func (cc *CookieChecker) checkDomainCookies(
	page playwright.Page,
	config CookieDomainConfig,
) (bool, error) {
	var cookies []playwright.Cookie
	var err error
	if config.Domain == "" {
		cookies, err = page.Context().Cookies()
	} else {
		cookies, err = page.Context().Cookies(config.Domain)
	}
	if err != nil {
		return false, err
	}

	// 转为map[name]value键值对，方便快速查询
	cookieMap := make(map[string]string, len(cookies))
	for _, cookie := range cookies {
		cookieMap[cookie.Name] = cookie.Value
	}

	allRequiredExist := true
	for _, name := range config.RequiredCookies {
		if _, exists := cookieMap[name]; !exists {
			allRequiredExist = false
			break
		}
	}

	if allRequiredExist {
		utils.Debug(fmt.Sprintf("[-] 域名 [%s] 所有必需Cookie已检测到", config.Domain))
	}

	return allRequiredExist, nil
}

// ValidateLoginCookies 验证当前Cookie是否有效（单次检测）
func (cc *CookieChecker) ValidateLoginCookies(
	page playwright.Page,
	config PlatformCookieConfig,
) (bool, error) {
	if page == nil {
		return false, fmt.Errorf("页面为空")
	}

	for _, domainConfig := range config.Domains {
		valid, err := cc.checkDomainCookies(page, domainConfig)
		if err != nil {
			return false, fmt.Errorf("验证域名 %s Cookie失败: %w", domainConfig.Domain, err)
		}
		if !valid {
			return false, nil
		}
	}

	return true, nil
}

// isBrowserClosedError 判断错误是否由浏览器关闭引起
func isBrowserClosedError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "target closed") ||
		strings.Contains(errMsg, "browser has been closed") ||
		strings.Contains(errMsg, "context or browser has been closed") ||
		strings.Contains(errMsg, "page has been closed") ||
		strings.Contains(errMsg, "connection closed")
}
