package browser

// CookieDomainConfig 单个域名的Cookie配置
type CookieDomainConfig struct {
	Domain          string   // Cookie域名
	RequiredCookies []string // 必需Cookie名称列表
	ExtendedCookies []string // 扩展Cookie名称列表
}

// PlatformCookieConfig 平台Cookie检测配置
type PlatformCookieConfig struct {
	Domains []CookieDomainConfig // 多域名Cookie配置
}

// YouTubeCookieConfig YouTube的Cookie配置
// 必需Cookie维持登录态并参与 SAPISIDHASH 签名
// 扩展Cookie不影响登录，但有则一并保存
var YouTubeCookieConfig = PlatformCookieConfig{
	Domains: []CookieDomainConfig{
		{
			Domain:          "https://youtube.com",
			RequiredCookies: []string{"SAPISID", "__Secure-3PAPISID", "__Secure-3PSID"},
			ExtendedCookies: []string{
				"LOGIN_INFO",
				"__Secure-1PSID",
				"__Secure-1PAPISID",
				"__Secure-1PSIDTS",
				"__Secure-3PSIDTS",
			},
		},
	},
}

// GetAllCookies 获取所有需要保存的Cookie（必需+扩展）
func (config PlatformCookieConfig) GetAllCookies() []string {
	allCookies := make([]string, 0)
	for _, domain := range config.Domains {
		allCookies = append(allCookies, domain.RequiredCookies...)
		allCookies = append(allCookies, domain.ExtendedCookies...)
	}
	return allCookies
}
