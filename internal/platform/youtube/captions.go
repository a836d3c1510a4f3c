package youtube

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/7x11x13/youtube-up/internal/types"
)

// updateCaptions 上传单个字幕文件
// 文件内容以 base64 data URI 内联在请求体里
func (u *Uploader) updateCaptions(ctx context.Context, s *sessionData, cf *CaptionsFile) error {
	raw, err := os.ReadFile(cf.Path)
	if err != nil {
		return types.NewUploadError("update_captions", "读取字幕文件失败: %v", err)
	}
	dataURI := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(raw)
	nanoTimestamp := strconv.FormatInt(time.Now().UnixNano(), 10)

	payload, err := json.Marshal(newUpdateCaptionsRequest(s, u.sessionToken, cf.Path, dataURI, string(*cf.Language), nanoTimestamp))
	if err != nil {
		return types.NewUploadError("update_captions", "序列化请求失败: %v", err)
	}
	resp, err := u.innertubePost(ctx, updateCaptionsURL, s, payload)
	if err != nil {
		return types.NewTransportError("update_captions", err)
	}
	if !resp.OK() {
		return types.NewTransportError("update_captions", fmt.Errorf("HTTP %d", resp.Status))
	}
	return nil
}
