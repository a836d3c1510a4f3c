package youtube

import (
	"context"
	"strings"

	"github.com/7x11x13/youtube-up/internal/types"
)

// thumbnailFormatFor 按扩展名推断封面格式，只接受 JPEG/PNG 族
func thumbnailFormatFor(filename string) (ThumbnailFormat, error) {
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	switch ext {
	case "jpg", "jpeg", "jfif", "pjpeg", "pjp":
		return ThumbnailFormatJPG, nil
	case "png":
		return ThumbnailFormatPNG, nil
	}
	return "", types.NewUnsupportedFormatError(ext)
}

// uploadThumbnail 上传封面并记录资源ID和格式
func (u *Uploader) uploadThumbnail(ctx context.Context, s *sessionData, thumbnailPath string, progress types.ProgressFunc) error {
	format, err := thumbnailFormatFor(thumbnailPath)
	if err != nil {
		return err
	}

	uploadURL, err := u.getThumbnailUploadURL(ctx, s)
	if err != nil {
		return err
	}

	scottyID, err := u.uploadFile(ctx, uploadURL, thumbnailPath, progress, "create_video", "upload_thumbnail")
	if err != nil {
		return err
	}

	s.ThumbnailScottyID = scottyID
	s.ThumbnailFormat = format
	progress("upload_thumbnail", progressAnchors["upload_thumbnail"])
	return nil
}
