// 包 fetch 封装 HTTP 客户端（代理/超时），用于请求第三方统计接口。
// 每次调用只发出一次请求，不做自动重试。
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultUA = "go-leetcode-stats/1.0 (+https://leetcode.com)"

// Client 为只读 GET 客户端。
type Client struct {
	http *http.Client
}

// Options 为客户端构造参数。
type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
}

// New 创建客户端，支持 http/https 代理与基础超时配置。
func New(opts Options) (*Client, error) {
	var httpProxy, httpsProxy *url.URL
	if opts.ProxyHTTP != "" {
		u, err := url.Parse(opts.ProxyHTTP)
		if err != nil {
			return nil, fmt.Errorf("parse http proxy %q: %w", opts.ProxyHTTP, err)
		}
		httpProxy = u
	}
	if opts.ProxyHTTPS != "" {
		u, err := url.Parse(opts.ProxyHTTPS)
		if err != nil {
			return nil, fmt.Errorf("parse https proxy %q: %w", opts.ProxyHTTPS, err)
		}
		httpsProxy = u
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && httpsProxy != nil {
				return httpsProxy, nil
			}
			if req.URL.Scheme == "http" && httpProxy != nil {
				return httpProxy, nil
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Client{http: &http.Client{Transport: transport, Timeout: opts.Timeout}}, nil
}

// Get 发出单次 GET 请求。仅传输层错误返回 error，
// 非 2xx 状态码原样交给调用方判断。
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	// 支持环境变量覆盖 UA（LCS_UA）
	ua := os.Getenv("LCS_UA")
	if ua == "" {
		ua = defaultUA
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
