package youtube

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateSAPISIDHash(t *testing.T) {
	now := time.Unix(1700000000, 0)
	hash := generateSAPISIDHash("test-sapisid", now)

	parts := strings.SplitN(hash, "_", 2)
	if len(parts) != 2 {
		t.Fatalf("签名格式应为 <时间戳>_<摘要>: %q", hash)
	}
	if parts[0] != "1700000000" {
		t.Errorf("时间戳部分不符: %q", parts[0])
	}
	if len(parts[1]) != 40 {
		t.Errorf("sha1 摘要应为40位十六进制，实际: %q", parts[1])
	}
	if hash != generateSAPISIDHash("test-sapisid", now) {
		t.Error("相同输入应产生相同签名")
	}
	if hash == generateSAPISIDHash("other-sapisid", now) {
		t.Error("不同SAPISID应产生不同签名")
	}
}

func TestNewFrontendUploadID(t *testing.T) {
	re := regexp.MustCompile(`^innertube_studio:[0-9A-F-]{36}:0$`)

	a := newFrontendUploadID()
	b := newFrontendUploadID()
	if !re.MatchString(a) {
		t.Errorf("上传标识格式不符: %q", a)
	}
	if a == b {
		t.Error("每次生成的上传标识应唯一")
	}
}

func TestSessionRegexes(t *testing.T) {
	body := `var config = {"INNERTUBE_API_KEY":"AIzaSyTest","DELEGATED_SESSION_ID":"delegated-1","SESSION_INDEX":"0"};`
	finalURL := "https://studio.youtube.com/channel/UC123abc/videos/upload"

	if m := innertubeAPIKeyRegex.FindStringSubmatch(body); m == nil || m[1] != "AIzaSyTest" {
		t.Errorf("API密钥提取不符: %v", m)
	}
	if m := delegatedSessionIDRegex.FindStringSubmatch(body); m == nil || m[1] != "delegated-1" {
		t.Errorf("委托会话ID提取不符: %v", m)
	}
	if m := sessionIndexRegex.FindStringSubmatch(body); m == nil || m[1] != "0" {
		t.Errorf("会话序号提取不符: %v", m)
	}
	if m := channelIDRegex.FindStringSubmatch(finalURL); m == nil || m[1] != "UC123abc" {
		t.Errorf("频道ID提取不符: %v", m)
	}
}

func TestThumbnailFormatFor(t *testing.T) {
	tests := []struct {
		file    string
		want    ThumbnailFormat
		wantErr bool
	}{
		{"cover.jpg", ThumbnailFormatJPG, false},
		{"cover.JPEG", ThumbnailFormatJPG, false},
		{"cover.jfif", ThumbnailFormatJPG, false},
		{"cover.png", ThumbnailFormatPNG, false},
		{"dir.v2/cover.png", ThumbnailFormatPNG, false},
		{"cover.webp", "", true},
		{"cover.gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := thumbnailFormatFor(tt.file)
			if tt.wantErr {
				if err == nil {
					t.Fatal("期望拒绝不支持的格式")
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("thumbnailFormatFor(%q) = %q, %v", tt.file, got, err)
			}
		})
	}
}
