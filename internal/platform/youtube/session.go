package youtube

import (
	"crypto/sha1"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// sessionData 单次上传过程中的会话状态
// 每次 Upload 调用新建，不跨调用共享
type sessionData struct {
	AuthUser           string
	ChannelID          string
	InnertubeAPIKey    string
	DelegatedSessionID string
	FrontendUploadID   string
	EncryptedVideoID   string
	ThumbnailScottyID  string
	ThumbnailFormat    ThumbnailFormat
}

// 从上传页响应中提取会话标识
var (
	delegatedSessionIDRegex = regexp.MustCompile(`"DELEGATED_SESSION_ID":"([^"]*)"`)
	innertubeAPIKeyRegex    = regexp.MustCompile(`"INNERTUBE_API_KEY":"([^"]*)"`)
	sessionIndexRegex       = regexp.MustCompile(`"SESSION_INDEX":"([^"]*)"`)
	channelIDRegex          = regexp.MustCompile(`https://studio\.youtube\.com/channel/([^/]*)/*`)
)

// generateSAPISIDHash 生成 Authorization 所需的签名
// 格式：<秒级时间戳>_<sha1(时间戳 + " " + SAPISID + " " + studio源)>
func generateSAPISIDHash(sapisid string, now time.Time) string {
	ts := now.Unix()
	msg := fmt.Sprintf("%d %s %s", ts, sapisid, studioOrigin)
	sum := sha1.Sum([]byte(msg))
	return fmt.Sprintf("%d_%x", ts, sum)
}

// newFrontendUploadID 生成前端上传标识
func newFrontendUploadID() string {
	return fmt.Sprintf("innertube_studio:%s:0", strings.ToUpper(uuid.NewString()))
}
