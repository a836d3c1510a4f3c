package youtube

import "time"

// 接口地址
const (
	uploadPageURL          = "https://youtube.com/upload"
	studioOrigin           = "https://studio.youtube.com"
	uploadStudioURL        = "https://upload.youtube.com/upload/studio"
	uploadThumbnailURL     = "https://upload.youtube.com/upload/studiothumbnail"
	innertubeBaseURL       = "https://studio.youtube.com/youtubei/v1"
	createVideoURL         = innertubeBaseURL + "/upload/createvideo"
	listPlaylistsURL       = innertubeBaseURL + "/creator/list_creator_playlists"
	createPlaylistURL      = innertubeBaseURL + "/playlist/create"
	updateCaptionsURL      = innertubeBaseURL + "/globalization/update_captions"
	updateMetadataURL      = innertubeBaseURL + "/video_manager/metadata_update"
	sessionTokenRequestURL = "studio.youtube.com/youtubei/v1/ars/grst"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0"

// Config 上传器配置
type Config struct {
	RequestTimeout      time.Duration // 普通接口请求超时
	UploadTimeout       time.Duration // 文件上传超时（大文件，单独放宽）
	TokenRefreshTimeout time.Duration // 令牌刷新总超时，超时视为刷新失败
	TokenPollInterval   time.Duration // 令牌捕获轮询间隔
	UserAgent           string
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout:      60 * time.Second,
		UploadTimeout:       2 * time.Hour,
		TokenRefreshTimeout: 60 * time.Second,
		TokenPollInterval:   time.Second,
		UserAgent:           defaultUserAgent,
	}
}
