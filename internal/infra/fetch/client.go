// Package fetch wraps single outbound HTTP calls with a hard deadline.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/pawpulse/pkg/metrics"
)

const (
	// DefaultTimeout bounds every outbound call.
	DefaultTimeout = 6500 * time.Millisecond
	// DefaultMaxBodyBytes caps how much of a response body is buffered.
	DefaultMaxBodyBytes = 1 << 20 // 1 MiB
	defaultUserAgent    = "PawPulse/1.0 (+https://pawpulse.app)"
)

var (
	// ErrTimeout reports that the per-call deadline elapsed.
	ErrTimeout = errors.New("fetch: deadline exceeded")
	// ErrNetwork reports transport level failures (DNS, TLS, reset, ...).
	ErrNetwork = errors.New("fetch: network error")
)

// StatusError reports a response whose status is outside [200,400).
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("fetch: status=%d url=%s body=%s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("fetch: status=%d url=%s", e.StatusCode, e.URL)
}

// IsSuccess reports whether a status counts as reachable.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusBadRequest
}

// Config controls the client defaults.
type Config struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// Request describes one outbound call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
	// Upstream labels metrics; defaults to the target host.
	Upstream string
}

// Response is a fully buffered upstream response.
type Response struct {
	// FinalURL is the URL after redirects were followed.
	FinalURL   string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type without parameters, lower-cased.
func (r Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsHTML reports whether the response declares an HTML payload. A missing
// content type is not HTML.
func (r Response) IsHTML() bool {
	ct := r.ContentType()
	return ct == "text/html" || ct == "application/xhtml+xml"
}

// Client issues deadline bounded HTTP calls.
type Client struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
}

// NewClient builds a Client with pooled transport settings.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{
		httpClient:   &http.Client{Transport: newHTTPTransport()},
		timeout:      timeout,
		maxBodyBytes: maxBody,
		userAgent:    ua,
	}
}

// Timeout returns the per-call deadline.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Do issues the request and buffers the body. The derived deadline is
// cancelled on every return path.
func (c *Client) Do(ctx context.Context, in Request) (Response, error) {
	method := in.Method
	if method == "" {
		method = http.MethodGet
	}
	upstream := in.Upstream
	if upstream == "" {
		upstream = hostOf(in.URL)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if len(in.Body) > 0 {
		body = bytes.NewReader(in.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, in.URL, body)
	if err != nil {
		metrics.ObserveUpstream(upstream, "invalid_request")
		return Response{}, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	for key, values := range in.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, c.classify(ctx, upstream, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return Response{}, c.classify(ctx, upstream, err)
	}

	out := Response{
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       payload,
	}
	if !IsSuccess(resp.StatusCode) {
		metrics.ObserveUpstream(upstream, "status_"+statusClass(resp.StatusCode))
		return out, &StatusError{StatusCode: resp.StatusCode, URL: out.FinalURL, Body: truncate(string(payload), 300)}
	}
	metrics.ObserveUpstream(upstream, "ok")
	return out, nil
}

// GetJSON performs a GET and decodes a JSON body into out.
func (c *Client) GetJSON(ctx context.Context, upstream, rawURL string, header http.Header, out any) error {
	h := header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Set("Accept", "application/json")
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, URL: rawURL, Header: h, Upstream: upstream})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", upstream, err)
	}
	return nil
}

// PostFormJSON posts url-encoded form values and decodes a JSON body into out.
func (c *Client) PostFormJSON(ctx context.Context, upstream, rawURL string, form url.Values, out any) error {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		URL:      rawURL,
		Header:   h,
		Body:     []byte(form.Encode()),
		Upstream: upstream,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", upstream, err)
	}
	return nil
}

func (c *Client) classify(ctx context.Context, upstream string, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		metrics.ObserveUpstream(upstream, "timeout")
		return fmt.Errorf("%w after %s: %v", ErrTimeout, c.timeout, err)
	}
	metrics.ObserveUpstream(upstream, "network_error")
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
