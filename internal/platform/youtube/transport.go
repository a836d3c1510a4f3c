package youtube

import (
	"context"
	"io"
	"net/http"

	"github.com/imroc/req/v3"
)

// Response 传输层响应
type Response struct {
	Status   int
	Headers  http.Header
	Body     []byte
	FinalURL string // 重定向后的最终地址
}

// OK 是否为 2xx
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport 传输层接口
// 只负责收发，不理解业务语义；非2xx由调用方按步骤语义处理
type Transport interface {
	Do(ctx context.Context, method, url string, query map[string]string, headers map[string]string, body io.Reader) (*Response, error)
}

type reqTransport struct {
	client *req.Client
}

// NewTransport 基于 req 的默认传输层
func NewTransport(cfg *Config) Transport {
	client := req.C().
		SetTimeout(cfg.UploadTimeout).
		SetUserAgent(cfg.UserAgent)
	return &reqTransport{client: client}
}

func (t *reqTransport) Do(ctx context.Context, method, url string, query map[string]string, headers map[string]string, body io.Reader) (*Response, error) {
	r := t.client.R().SetContext(ctx)
	if len(query) > 0 {
		r.SetQueryParams(query)
	}
	if len(headers) > 0 {
		r.SetHeaders(headers)
	}
	if body != nil {
		r.SetBody(body)
	}

	resp, err := r.Send(method, url)
	if err != nil {
		return nil, err
	}

	out := &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    resp.Bytes(),
	}
	if resp.Response != nil && resp.Response.Request != nil && resp.Response.Request.URL != nil {
		out.FinalURL = resp.Response.Request.URL.String()
	}
	return out, nil
}
