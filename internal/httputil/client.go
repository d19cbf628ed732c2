// Package httputil provides the shared HTTP transport used by platform providers
// and the input validation applied before any request leaves the process.
package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seam/internal/metrics"
)

// DefaultUserAgent is sent when the configuration does not override it.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultTimeout bounds every request issued by a Client.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps response bodies read from upstream APIs.
var maxBodySize int64 = 10 * 1024 * 1024

// NetworkError reports a transport failure, timeout or non-2xx upstream response.
type NetworkError struct {
	Method string
	URL    string
	Status int // zero when no response was received
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string

	// HTTPClient replaces the hardened default client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client issues JSON requests with a default browser-like header set.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a hardened HTTP client with secure defaults.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        50,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		}
	}

	return &Client{http: hc, userAgent: opts.UserAgent}
}

// GetJSON performs a GET request with the query appended and returns the body.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string) ([]byte, error) {
	if len(query) > 0 {
		rawURL = WithQuery(rawURL, query)
	}
	return c.do(ctx, http.MethodGet, rawURL, nil, headers)
}

// PostFormJSON performs a form-encoded POST request and returns the body.
func (c *Client) PostFormJSON(ctx context.Context, rawURL string, form url.Values, headers map[string]string) ([]byte, error) {
	merged := MergeHeaders(map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, headers)
	return c.do(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()), merged)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) ([]byte, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	for k, v := range MergeHeaders(headers) {
		req.Header.Set(k, v)
	}

	host := req.URL.Host
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(host, "error").Inc()
		return nil, &NetworkError{Method: method, URL: stripQuery(rawURL), Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(host, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Method: method, URL: stripQuery(rawURL), Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &NetworkError{Method: method, URL: stripQuery(rawURL), Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(data)) > maxBodySize {
		return nil, &NetworkError{Method: method, URL: stripQuery(rawURL), Err: fmt.Errorf("response too large (over %d bytes)", maxBodySize)}
	}

	return data, nil
}

// stripQuery drops the query string so caller-supplied values never land in error text.
func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
