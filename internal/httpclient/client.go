package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/davemt/stressforge/internal/config"
)

// RequestBuilder constructs the GET requests a load run issues against the
// target. One builder is shared by every in-flight request of a run.
type RequestBuilder struct {
	target  string
	headers http.Header
}

func NewRequestBuilder(cfg *config.Config) (*RequestBuilder, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	target := strings.TrimSpace(cfg.TargetURL)
	if target == "" {
		return nil, errors.New("target URL is required")
	}

	headers := http.Header{}
	for key, value := range cfg.Headers {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" || strings.ContainsAny(trimmedKey, "\r\n") {
			return nil, fmt.Errorf("invalid header key %q", key)
		}
		canonicalKey := http.CanonicalHeaderKey(trimmedKey)
		if strings.ContainsAny(value, "\r\n") {
			return nil, fmt.Errorf("invalid header value for %s", canonicalKey)
		}
		headers.Set(canonicalKey, value)
	}
	if cfg.UserAgent != "" && headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	return &RequestBuilder{
		target:  target,
		headers: headers,
	}, nil
}

// Target returns the URL every built request points at.
func (b *RequestBuilder) Target() string {
	if b == nil {
		return ""
	}
	return b.target
}

func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b == nil {
		return nil, errors.New("builder cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.target, nil)
	if err != nil {
		return nil, err
	}

	if b.headers != nil {
		req.Header = make(http.Header, len(b.headers))
		for key, values := range b.headers {
			for _, val := range values {
				req.Header.Add(key, val)
			}
		}
	}
	return req, nil
}

// NewClient builds the shared HTTP client for a run. poolLimit caps
// concurrent connections per host; it is the protective socket ceiling,
// independent of how many virtual users are configured. When
// followRedirects is false a 3xx response is returned as-is instead of
// being chased.
func NewClient(timeout time.Duration, followRedirects bool, poolLimit int) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	if poolLimit < 1 {
		poolLimit = 1
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxConnsPerHost:       poolLimit,
		MaxIdleConns:          poolLimit,
		MaxIdleConnsPerHost:   poolLimit,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	if !followRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
