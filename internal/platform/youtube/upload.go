package youtube

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/7x11x13/youtube-up/internal/types"

	"github.com/tidwall/gjson"
)

// getUploadURL 可续传上传第一阶段：注册上传意图，取回上传地址
func (u *Uploader) getUploadURL(ctx context.Context, apiURL, authUser string, body []byte) (string, error) {
	query := map[string]string{"authuser": authUser}
	headers := u.authHeaders()
	headers["x-goog-upload-command"] = "start"
	headers["x-goog-upload-protocol"] = "resumable"
	headers["Content-Type"] = "application/json"

	resp, err := u.transport.Do(ctx, "POST", apiURL, query, headers, bytes.NewReader(body))
	if err != nil {
		return "", types.NewTransportError("get_upload_url", err)
	}
	if !resp.OK() {
		return "", types.NewTransportError("get_upload_url", fmt.Errorf("HTTP %d", resp.Status))
	}
	uploadURL := resp.Headers.Get("x-goog-upload-url")
	if uploadURL == "" {
		return "", types.NewTransportError("get_upload_url", fmt.Errorf("响应中缺少上传地址"))
	}
	return uploadURL, nil
}

// getVideoUploadURL 获取视频上传地址，同时生成前端上传标识
func (u *Uploader) getVideoUploadURL(ctx context.Context, s *sessionData) (string, error) {
	s.FrontendUploadID = newFrontendUploadID()
	body := []byte(fmt.Sprintf(`{"frontendUploadId":%q}`, s.FrontendUploadID))
	return u.getUploadURL(ctx, uploadStudioURL, s.AuthUser, body)
}

// getThumbnailUploadURL 获取封面上传地址
func (u *Uploader) getThumbnailUploadURL(ctx context.Context, s *sessionData) (string, error) {
	return u.getUploadURL(ctx, uploadThumbnailURL, s.AuthUser, []byte("{}"))
}

// progressReader 读取时上报累计字节数
type progressReader struct {
	r      io.Reader
	sent   int64
	report func(sent int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent)
	}
	return n, err
}

// uploadFile 可续传上传第二阶段：整体上传并终结，返回资源ID
// 字节进度线性映射到 [prevStep, curStep] 的锚点区间，保留一位小数
func (u *Uploader) uploadFile(ctx context.Context, uploadURL, filePath string, progress types.ProgressFunc, prevStep, curStep string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", types.NewUploadError(curStep, "打开文件失败: %v", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", types.NewUploadError(curStep, "读取文件信息失败: %v", err)
	}
	size := info.Size()

	startProg := progressAnchors[prevStep]
	endProg := progressAnchors[curStep]
	reader := &progressReader{
		r: file,
		report: func(sent int64) {
			cur := startProg + (endProg-startProg)*float64(sent)/float64(size)
			progress(curStep, math.Round(cur*10)/10)
		},
	}

	headers := u.authHeaders()
	headers["x-goog-upload-command"] = "upload, finalize"
	headers["x-goog-upload-offset"] = "0"

	resp, err := u.transport.Do(ctx, "POST", uploadURL, nil, headers, reader)
	if err != nil {
		return "", types.NewTransportError(curStep, err)
	}
	if !resp.OK() {
		return "", types.NewTransportError(curStep, fmt.Errorf("HTTP %d", resp.Status))
	}

	scottyResourceID := gjson.GetBytes(resp.Body, "scottyResourceId").String()
	if scottyResourceID == "" {
		return "", types.NewUploadError(curStep, "响应中缺少资源ID")
	}
	return scottyResourceID, nil
}
