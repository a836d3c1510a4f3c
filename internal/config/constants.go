package config

// 默认存储路径（相对于可执行文件所在目录）
const (
	DefaultDbPath        = "storage/youtube-up.db"
	DefaultCookiePath    = "storage/cookies"
	DefaultLogPath       = "storage/logs"
	DefaultThumbnailPath = "storage/thumbnails"
)

// DefaultTimeout 网络请求默认超时（秒）
const DefaultTimeout = 60

// 账号状态
const (
	AccountStatusInvalid = 0 // 未登录或Cookie失效
	AccountStatusValid   = 1 // Cookie有效
)

// PlatformYouTube 平台标识
const PlatformYouTube = "youtube"
