package types

import (
	"errors"
	"fmt"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	ErrValidation          ErrorKind = "validation"           // 预检失败，未发起任何网络请求
	ErrAuthentication      ErrorKind = "authentication"       // 无法获得已登录的频道会话
	ErrStaleSession        ErrorKind = "stale_session"        // 会话令牌失效（软失败，内部重试一次）
	ErrUnsupportedFormat   ErrorKind = "unsupported_format"   // 封面文件扩展名不支持
	ErrTransport           ErrorKind = "transport"            // 非2xx响应或网络错误，致命
	ErrProviderUnavailable ErrorKind = "provider_unavailable" // 无可用浏览器自动化后端
	ErrLoginRequired       ErrorKind = "login_required"       // 平台拒绝了当前凭据
	ErrUpload              ErrorKind = "upload"               // 终态失败，重试已用尽
)

// StepError 带步骤标记的错误
// 除验证错误外，所有错误都携带出错的步骤名向上传播
type StepError struct {
	Kind ErrorKind
	Step string
	Err  error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("失败: %s - %v", e.Step, e.Err)
	}
	return fmt.Sprintf("失败: %s", e.Step)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *StepError {
	return &StepError{Kind: ErrValidation, Step: "validate", Err: fmt.Errorf(format, args...)}
}

func NewAuthError(step string, err error) *StepError {
	return &StepError{Kind: ErrAuthentication, Step: step, Err: err}
}

func NewStaleSessionError(step string) *StepError {
	return &StepError{Kind: ErrStaleSession, Step: step, Err: errors.New("会话令牌可能已失效")}
}

func NewUnsupportedFormatError(ext string) *StepError {
	return &StepError{
		Kind: ErrUnsupportedFormat,
		Step: "upload_thumbnail",
		Err:  fmt.Errorf("不支持的封面格式 '%s'，仅支持 JPEG/PNG", ext),
	}
}

func NewTransportError(step string, err error) *StepError {
	return &StepError{Kind: ErrTransport, Step: step, Err: err}
}

func NewProviderUnavailableError(err error) *StepError {
	return &StepError{Kind: ErrProviderUnavailable, Step: "get_session_token", Err: err}
}

func NewLoginRequiredError(step string, err error) *StepError {
	return &StepError{Kind: ErrLoginRequired, Step: step, Err: err}
}

func NewUploadError(step string, format string, args ...any) *StepError {
	return &StepError{Kind: ErrUpload, Step: step, Err: fmt.Errorf(format, args...)}
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind ErrorKind) bool {
	var se *StepError
	return errors.As(err, &se) && se.Kind == kind
}
