package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/7x11x13/youtube-up/internal/config"
	"github.com/7x11x13/youtube-up/internal/types"
	"github.com/7x11x13/youtube-up/internal/utils"

	"github.com/tidwall/gjson"
)

// 各步骤完成时的进度锚点
var progressAnchors = map[string]float64{
	"start":             0,
	"get_session_data":  10,
	"get_upload_url":    20,
	"upload_video":      70,
	"get_session_token": 80,
	"create_video":      90,
	"upload_thumbnail":  95,
	"finish":            100,
}

// Uploader 单频道视频上传器
// 不能跨并发上传共享同一个 CookieStore，调用方需自行串行化
type Uploader struct {
	store         *CookieStore
	transport     Transport
	tokenProvider SessionTokenProvider
	config        *Config

	sessionToken string
	sapisid      string
	cookieHeader string
}

// NewUploader 创建上传器并加载Cookie
func NewUploader(store *CookieStore, tokenProvider SessionTokenProvider, cfg *Config) (*Uploader, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	u := &Uploader{
		store:         store,
		transport:     NewTransport(cfg),
		tokenProvider: tokenProvider,
		config:        cfg,
	}
	if err := u.reloadCookies(); err != nil {
		return nil, types.NewAuthError("load_cookies", err)
	}
	return u, nil
}

// newUploaderWithTransport 测试用构造器
func newUploaderWithTransport(store *CookieStore, transport Transport, tokenProvider SessionTokenProvider, cfg *Config) *Uploader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	u := &Uploader{
		store:         store,
		transport:     transport,
		tokenProvider: tokenProvider,
		config:        cfg,
	}
	_ = u.reloadCookies()
	return u
}

// reloadCookies 从存储重建请求Cookie，提取会话令牌和SAPISID
func (u *Uploader) reloadCookies() error {
	if err := u.store.Load(); err != nil {
		return err
	}
	var parts []string
	u.sapisid = ""
	for _, c := range u.store.Cookies() {
		if c.Name == sessionTokenCookieName {
			u.sessionToken = c.Value
			continue
		}
		if !cookieWhitelist[c.Name] {
			continue
		}
		if c.Name == "SAPISID" {
			u.sapisid = c.Value
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	if u.sapisid == "" {
		return fmt.Errorf("Cookie中缺少SAPISID")
	}
	u.cookieHeader = strings.Join(parts, "; ")
	return nil
}

// authHeaders 构造每个请求携带的认证头
func (u *Uploader) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "SAPISIDHASH " + generateSAPISIDHash(u.sapisid, time.Now()),
		"x-origin":      studioOrigin,
		"Cookie":        u.cookieHeader,
	}
}

// HasValidCookies 检查Cookie是否仍然有效
// 访问上传页，能跳转到频道后台即视为有效
func (u *Uploader) HasValidCookies(ctx context.Context) bool {
	resp, err := u.transport.Do(ctx, "GET", uploadPageURL, nil, u.authHeaders(), nil)
	if err != nil {
		return false
	}
	return strings.Contains(resp.FinalURL, "studio.youtube.com/channel")
}

// Upload 上传视频并设置元数据，返回视频ID
// 步骤严格串行，步骤之间检查取消信号
func (u *Uploader) Upload(ctx context.Context, videoPath string, m *Metadata, progress types.ProgressFunc) (string, error) {
	if progress == nil {
		progress = func(string, float64) {}
	}

	// 校验先于一切网络请求
	if err := m.Validate(); err != nil {
		return "", err
	}

	// 封面格式前置推断，不支持的格式在发起任何请求前就拒绝
	if m.Thumbnail != "" {
		if _, err := thumbnailFormatFor(m.Thumbnail); err != nil {
			return "", err
		}
	}

	progress("start", progressAnchors["start"])
	s := &sessionData{}

	if err := u.getSessionData(ctx, s); err != nil {
		return "", err
	}
	progress("get_session_data", progressAnchors["get_session_data"])

	if err := ctx.Err(); err != nil {
		return "", err
	}
	uploadURL, err := u.getVideoUploadURL(ctx, s)
	if err != nil {
		return "", err
	}
	progress("get_upload_url", progressAnchors["get_upload_url"])

	if err := ctx.Err(); err != nil {
		return "", err
	}
	scottyResourceID, err := u.uploadFile(ctx, uploadURL, videoPath, progress, "get_upload_url", "upload_video")
	if err != nil {
		return "", err
	}
	progress("upload_video", progressAnchors["upload_video"])

	// 创建视频，软失败时刷新令牌后重试恰好一次
	videoID, err := u.createVideo(ctx, s, m, scottyResourceID)
	if err != nil {
		return "", err
	}
	if videoID == "" {
		utils.WarnWithPlatform(config.PlatformYouTube, "创建视频未返回视频ID，尝试刷新会话令牌后重试")
		if err := u.refreshSessionToken(ctx); err != nil {
			return "", err
		}
		progress("get_session_token", progressAnchors["get_session_token"])
		videoID, err = u.createVideo(ctx, s, m, scottyResourceID)
		if err != nil {
			return "", err
		}
		if videoID == "" {
			return "", types.NewUploadError("create_video", "无法创建视频，重试已用尽")
		}
	}
	s.EncryptedVideoID = videoID
	progress("create_video", progressAnchors["create_video"])

	// 封面
	if m.Thumbnail != "" {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := u.uploadThumbnail(ctx, s, m.Thumbnail, progress); err != nil {
			return "", err
		}
	}

	// 播放列表
	if len(m.Playlists) > 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := u.resolvePlaylists(ctx, s, m); err != nil {
			return "", err
		}
	}

	// 字幕，语言缺省时回填 audio_language
	for _, cf := range m.CaptionsFiles {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if cf.Language == nil {
			cf.Language = m.AudioLanguage
		}
		if err := u.updateCaptions(ctx, s, cf); err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := u.updateMetadata(ctx, s, m); err != nil {
		return "", err
	}

	// 会话令牌写回Cookie存储
	u.store.Upsert(&Cookie{Name: sessionTokenCookieName, Value: u.sessionToken})
	if err := u.store.Save(); err != nil {
		utils.WarnWithPlatform(config.PlatformYouTube, fmt.Sprintf("保存Cookie失败: %v", err))
	}

	progress("finish", progressAnchors["finish"])
	utils.SuccessWithPlatform(config.PlatformYouTube, fmt.Sprintf("视频上传成功: %s", videoID))
	return videoID, nil
}

// getSessionData 获取上传页并提取会话标识
func (u *Uploader) getSessionData(ctx context.Context, s *sessionData) error {
	resp, err := u.transport.Do(ctx, "GET", uploadPageURL, nil, u.authHeaders(), nil)
	if err != nil {
		return types.NewTransportError("get_session_data", err)
	}
	if !strings.Contains(resp.FinalURL, "studio.youtube.com/channel") {
		return types.NewAuthError("get_session_data", fmt.Errorf("无法登录YouTube账号，请重新获取Cookie"))
	}

	body := string(resp.Body)
	if m := channelIDRegex.FindStringSubmatch(resp.FinalURL); m != nil {
		s.ChannelID = m[1]
	} else {
		return types.NewAuthError("get_session_data", fmt.Errorf("无法从页面地址提取频道ID"))
	}
	if m := innertubeAPIKeyRegex.FindStringSubmatch(body); m != nil {
		s.InnertubeAPIKey = m[1]
	} else {
		return types.NewAuthError("get_session_data", fmt.Errorf("无法从页面提取API密钥"))
	}
	if m := delegatedSessionIDRegex.FindStringSubmatch(body); m != nil {
		s.DelegatedSessionID = m[1]
	}
	if m := sessionIndexRegex.FindStringSubmatch(body); m != nil {
		s.AuthUser = m[1]
	}

	utils.DebugWithPlatform(config.PlatformYouTube, fmt.Sprintf("会话就绪，频道: %s", s.ChannelID))
	return nil
}

// createVideo 创建视频
// 2xx但缺少videoId视为软失败，返回空ID由调用方决定重试
func (u *Uploader) createVideo(ctx context.Context, s *sessionData, m *Metadata, scottyResourceID string) (string, error) {
	payload, err := json.Marshal(newCreateVideoRequest(s, u.sessionToken, m, scottyResourceID))
	if err != nil {
		return "", types.NewUploadError("create_video", "序列化请求失败: %v", err)
	}
	resp, err := u.innertubePost(ctx, createVideoURL, s, payload)
	if err != nil {
		return "", types.NewTransportError("create_video", err)
	}
	if !resp.OK() {
		return "", types.NewTransportError("create_video", fmt.Errorf("HTTP %d", resp.Status))
	}
	return gjson.GetBytes(resp.Body, "videoId").String(), nil
}

// updateMetadata 发布最终元数据
func (u *Uploader) updateMetadata(ctx context.Context, s *sessionData, m *Metadata) error {
	payload, err := json.Marshal(newUpdateMetadataRequest(s, u.sessionToken, m))
	if err != nil {
		return types.NewUploadError("update_metadata", "序列化请求失败: %v", err)
	}
	resp, err := u.innertubePost(ctx, updateMetadataURL, s, payload)
	if err != nil {
		return types.NewTransportError("update_metadata", err)
	}
	if !resp.OK() {
		return types.NewTransportError("update_metadata", fmt.Errorf("HTTP %d", resp.Status))
	}
	return nil
}

// innertubePost 向 innertube 接口发送JSON请求
func (u *Uploader) innertubePost(ctx context.Context, url string, s *sessionData, payload []byte) (*Response, error) {
	query := map[string]string{"key": s.InnertubeAPIKey, "alt": "json"}
	headers := u.authHeaders()
	headers["Content-Type"] = "application/json"
	if s.AuthUser != "" {
		headers["X-Goog-AuthUser"] = s.AuthUser
	}
	return u.transport.Do(ctx, "POST", url, query, headers, bytes.NewReader(payload))
}

// refreshSessionToken 通过浏览器自动化刷新会话令牌
func (u *Uploader) refreshSessionToken(ctx context.Context) error {
	if u.tokenProvider == nil {
		return types.NewProviderUnavailableError(fmt.Errorf("未配置会话令牌提供者"))
	}
	token, err := u.tokenProvider.Refresh(ctx, u.store.Cookies())
	if err != nil {
		return err
	}
	u.sessionToken = token
	u.store.Upsert(&Cookie{Name: sessionTokenCookieName, Value: token})
	if err := u.store.Save(); err != nil {
		utils.WarnWithPlatform(config.PlatformYouTube, fmt.Sprintf("保存Cookie失败: %v", err))
	}
	return nil
}
