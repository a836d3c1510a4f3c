package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/7x11x13/youtube-up/internal/types"

	"github.com/tidwall/gjson"
)

// fakeTransport 按URL路由的内存传输层
type fakeTransport struct {
	calls  []string // 按序记录请求地址
	bodies [][]byte // 按序记录请求体

	createVideoResponses []string // createvideo 响应队列，逐次弹出
	sessionPageURL       string   // 上传页跳转后的地址
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		createVideoResponses: []string{`{"videoId":"vid123"}`},
		sessionPageURL:       "https://studio.youtube.com/channel/UC123/videos/upload",
	}
}

func (f *fakeTransport) Do(ctx context.Context, method, url string, query, headers map[string]string, body io.Reader) (*Response, error) {
	var payload []byte
	if body != nil {
		payload, _ = io.ReadAll(body)
	}
	f.calls = append(f.calls, url)
	f.bodies = append(f.bodies, payload)

	resp := &Response{Status: 200, Headers: http.Header{}}
	switch url {
	case uploadPageURL:
		resp.FinalURL = f.sessionPageURL
		resp.Body = []byte(`{"INNERTUBE_API_KEY":"test-key","SESSION_INDEX":"0"}`)
	case uploadStudioURL:
		resp.Headers.Set("x-goog-upload-url", "https://upload.example/video")
	case uploadThumbnailURL:
		resp.Headers.Set("x-goog-upload-url", "https://upload.example/thumb")
	case "https://upload.example/video":
		resp.Body = []byte(`{"scottyResourceId":"scotty-video"}`)
	case "https://upload.example/thumb":
		resp.Body = []byte(`{"scottyResourceId":"scotty-thumb"}`)
	case createVideoURL:
		if len(f.createVideoResponses) == 0 {
			return nil, fmt.Errorf("createvideo 响应队列已空")
		}
		resp.Body = []byte(f.createVideoResponses[0])
		f.createVideoResponses = f.createVideoResponses[1:]
	case listPlaylistsURL:
		resp.Body = []byte(`{"playlists":[{"title":"Music","playlistId":"PL1"}]}`)
	case createPlaylistURL:
		resp.Body = []byte(`{"playlistId":"PL-new"}`)
	case updateCaptionsURL, updateMetadataURL:
		resp.Body = []byte(`{}`)
	default:
		return nil, fmt.Errorf("未知地址: %s", url)
	}
	return resp, nil
}

func (f *fakeTransport) countCalls(url string) int {
	n := 0
	for _, c := range f.calls {
		if c == url {
			n++
		}
	}
	return n
}

func (f *fakeTransport) lastBody(url string) []byte {
	var out []byte
	for i, c := range f.calls {
		if c == url {
			out = f.bodies[i]
		}
	}
	return out
}

// fakeTokenProvider 固定返回新令牌
type fakeTokenProvider struct {
	token    string
	refreshes int
	err      error
}

func (f *fakeTokenProvider) Refresh(ctx context.Context, cookies []*Cookie) (string, error) {
	f.refreshes++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func testUploader(t *testing.T, transport Transport, provider SessionTokenProvider) *Uploader {
	t.Helper()
	content := "# Netscape HTTP Cookie File\n" +
		".youtube.com\tTRUE\t/\tTRUE\t1800000000\tSAPISID\tsapisid-value\n" +
		".youtube.com\tTRUE\t/\tTRUE\t1800000000\t__Secure-3PSID\t3psid-value\n" +
		".youtube.com\tTRUE\t/\tTRUE\t1800000000\tSESSION_TOKEN\told-token\n"
	store := NewCookieStore(writeTempCookies(t, content))
	return newUploaderWithTransport(store, transport, provider, nil)
}

func testVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadHappyPath(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	var steps []string
	var lastPercent float64
	progress := func(step string, percent float64) {
		steps = append(steps, step)
		if percent < lastPercent {
			t.Errorf("进度应单调不减: %s %.1f < %.1f", step, percent, lastPercent)
		}
		lastPercent = percent
	}

	videoID, err := u.Upload(context.Background(), testVideoFile(t), &Metadata{Title: "测试", Privacy: PrivacyPublic}, progress)
	if err != nil {
		t.Fatal(err)
	}
	if videoID != "vid123" {
		t.Errorf("视频ID不符: %q", videoID)
	}
	if lastPercent != 100 {
		t.Errorf("结束进度应为100，实际: %.1f", lastPercent)
	}

	// 步骤顺序
	want := []string{uploadPageURL, uploadStudioURL, "https://upload.example/video", createVideoURL, updateMetadataURL}
	for i := 1; i < len(want); i++ {
		if indexOf(transport.calls, want[i-1]) > indexOf(transport.calls, want[i]) {
			t.Errorf("步骤顺序错误: %s 应先于 %s", want[i-1], want[i])
		}
	}
	for _, url := range want {
		if transport.countCalls(url) != 1 {
			t.Errorf("%s 应恰好调用一次，实际%d次", url, transport.countCalls(url))
		}
	}

	// 会话令牌来自Cookie存储中的合成条目
	body := transport.lastBody(createVideoURL)
	if gjson.GetBytes(body, "context.request.sessionInfo.token").String() != "old-token" {
		t.Errorf("创建视频应携带已保存的会话令牌")
	}
	if gjson.GetBytes(body, "channelId").String() != "UC123" {
		t.Errorf("频道ID不符: %s", body)
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestUploadSoftFailureRetry(t *testing.T) {
	transport := newFakeTransport()
	transport.createVideoResponses = []string{`{}`, `{"videoId":"vid-after-retry"}`}
	provider := &fakeTokenProvider{token: "fresh-token"}
	u := testUploader(t, transport, provider)

	videoID, err := u.Upload(context.Background(), testVideoFile(t), &Metadata{Title: "测试", Privacy: PrivacyPublic}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if videoID != "vid-after-retry" {
		t.Errorf("重试后视频ID不符: %q", videoID)
	}
	if provider.refreshes != 1 {
		t.Errorf("软失败应触发恰好一次令牌刷新，实际%d次", provider.refreshes)
	}
	if transport.countCalls(createVideoURL) != 2 {
		t.Errorf("createvideo 应调用两次，实际%d次", transport.countCalls(createVideoURL))
	}

	// 重试请求应携带刷新后的令牌
	body := transport.lastBody(createVideoURL)
	if gjson.GetBytes(body, "context.request.sessionInfo.token").String() != "fresh-token" {
		t.Error("重试应使用刷新后的会话令牌")
	}
	// 新令牌写回Cookie存储
	if u.store.Get(sessionTokenCookieName) != "fresh-token" {
		t.Errorf("刷新后的令牌应写回存储: %q", u.store.Get(sessionTokenCookieName))
	}
}

func TestUploadSoftFailureExhausted(t *testing.T) {
	transport := newFakeTransport()
	transport.createVideoResponses = []string{`{}`, `{}`}
	provider := &fakeTokenProvider{token: "fresh-token"}
	u := testUploader(t, transport, provider)

	_, err := u.Upload(context.Background(), testVideoFile(t), &Metadata{Title: "测试", Privacy: PrivacyPublic}, nil)
	if err == nil {
		t.Fatal("两次软失败后应返回错误")
	}
	if !types.IsKind(err, types.ErrUpload) {
		t.Errorf("错误分类应为 upload，实际: %v", err)
	}
	if provider.refreshes != 1 {
		t.Errorf("只允许一次令牌刷新，实际%d次", provider.refreshes)
	}
	// 终态失败后不应再有后续请求
	if transport.countCalls(updateMetadataURL) != 0 {
		t.Error("失败后不应继续发布元数据")
	}
}

func TestUploadSoftFailureWithoutProvider(t *testing.T) {
	transport := newFakeTransport()
	transport.createVideoResponses = []string{`{}`}
	u := testUploader(t, transport, nil)

	_, err := u.Upload(context.Background(), testVideoFile(t), &Metadata{Title: "测试", Privacy: PrivacyPublic}, nil)
	if err == nil {
		t.Fatal("无令牌提供者时软失败应返回错误")
	}
	if !types.IsKind(err, types.ErrProviderUnavailable) {
		t.Errorf("错误分类应为 provider_unavailable，实际: %v", err)
	}
}

func TestUploadRejectsBadThumbnailBeforeAnyRequest(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	m := &Metadata{Title: "测试", Privacy: PrivacyPublic, Thumbnail: "cover.webp"}
	_, err := u.Upload(context.Background(), testVideoFile(t), m, nil)
	if err == nil {
		t.Fatal("webp 封面应被拒绝")
	}
	if !types.IsKind(err, types.ErrUnsupportedFormat) {
		t.Errorf("错误分类应为 unsupported_format，实际: %v", err)
	}
	if len(transport.calls) != 0 {
		t.Errorf("格式检查应先于任何网络请求，实际发起了%d个请求", len(transport.calls))
	}
}

func TestUploadRejectsInvalidMetadataBeforeAnyRequest(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	m := &Metadata{Title: "bad <title>"}
	_, err := u.Upload(context.Background(), testVideoFile(t), m, nil)
	if err == nil {
		t.Fatal("非法元数据应被拒绝")
	}
	if !types.IsKind(err, types.ErrValidation) {
		t.Errorf("错误分类应为 validation，实际: %v", err)
	}
	if len(transport.calls) != 0 {
		t.Errorf("校验应先于任何网络请求，实际发起了%d个请求", len(transport.calls))
	}
}

func TestUploadAuthFailure(t *testing.T) {
	transport := newFakeTransport()
	transport.sessionPageURL = "https://accounts.google.com/signin"
	u := testUploader(t, transport, nil)

	_, err := u.Upload(context.Background(), testVideoFile(t), &Metadata{Title: "测试"}, nil)
	if err == nil {
		t.Fatal("未登录时应返回错误")
	}
	if !types.IsKind(err, types.ErrAuthentication) {
		t.Errorf("错误分类应为 authentication，实际: %v", err)
	}
}

func TestUploadWithThumbnail(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	thumb := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(thumb, make([]byte, 256), 0644); err != nil {
		t.Fatal(err)
	}

	m := &Metadata{Title: "测试", Privacy: PrivacyPublic, Thumbnail: thumb}
	if _, err := u.Upload(context.Background(), testVideoFile(t), m, nil); err != nil {
		t.Fatal(err)
	}

	if transport.countCalls(uploadThumbnailURL) != 1 {
		t.Error("应请求封面上传地址")
	}
	body := transport.lastBody(updateMetadataURL)
	if gjson.GetBytes(body, "videoStill.image.encryptedScottyResourceId").String() != "scotty-thumb" {
		t.Errorf("元数据更新应携带封面资源ID: %s", body)
	}
	if gjson.GetBytes(body, "videoStill.image.format").String() != "CUSTOM_THUMBNAIL_IMAGE_FORMAT_PNG" {
		t.Errorf("封面格式不符: %s", body)
	}
}

func TestUploadWithCaptions(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	subs := filepath.Join(t.TempDir(), "subs.srt")
	if err := os.WriteFile(subs, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lang := Language("en")
	m := &Metadata{
		Title:         "测试",
		Privacy:       PrivacyPublic,
		AudioLanguage: &lang,
		CaptionsFiles: []*CaptionsFile{{Path: subs}},
	}
	if _, err := u.Upload(context.Background(), testVideoFile(t), m, nil); err != nil {
		t.Fatal(err)
	}

	body := transport.lastBody(updateCaptionsURL)
	if body == nil {
		t.Fatal("应发送字幕更新请求")
	}
	// 语言缺省时回填 audio_language
	if gjson.GetBytes(body, "operations.0.ttsTrackId.lang").String() != "en" {
		t.Errorf("字幕语言应回填为 audio_language: %s", body)
	}
	if got := gjson.GetBytes(body, "operations.0.captionsFile.dataUri").String(); !strings.HasPrefix(got, "data:application/octet-stream;base64,") {
		t.Errorf("字幕内容应为 base64 data URI: %q", got)
	}
}

func TestUploadCancelledContext(t *testing.T) {
	transport := newFakeTransport()
	u := testUploader(t, transport, nil)

	// 会话就绪后取消，后续步骤应全部中断
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	progress := func(step string, percent float64) {
		if step == "get_session_data" {
			cancel()
		}
	}
	_, err := u.Upload(ctx, testVideoFile(t), &Metadata{Title: "测试"}, progress)
	if err == nil {
		t.Fatal("取消的上下文应中断上传")
	}
	if transport.countCalls(createVideoURL) != 0 {
		t.Error("取消后不应继续创建视频")
	}
}

func TestHasValidCookies(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u := testUploader(t, newFakeTransport(), nil)
		if !u.HasValidCookies(context.Background()) {
			t.Error("能跳转到频道后台时应判定有效")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		transport := newFakeTransport()
		transport.sessionPageURL = "https://accounts.google.com/signin"
		u := testUploader(t, transport, nil)
		if u.HasValidCookies(context.Background()) {
			t.Error("跳转到登录页时应判定无效")
		}
	})
}
