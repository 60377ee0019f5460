// Package http provides the HTTP client used to reach chat endpoints.
// The client is tuned for streaming responses: transparent compression is
// disabled so SSE bodies arrive unbuffered, and there is no client-wide
// timeout; lifetimes are managed by per-request contexts. Failed requests
// are not retried.
package http

import (
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
)

// ClientConfig configures the endpoint client.
type ClientConfig struct {
	// Headers are applied to every outgoing request.
	Headers map[string]string `json:"headers,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"user_agent,omitempty"`

	// BearerToken, when set, is attached as a static OAuth2 bearer
	// credential on every request.
	BearerToken string `json:"-"`

	// RequestTimeout bounds a single non-streaming exchange. Streaming
	// requests ignore it and rely on their context.
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
}

// Client wraps net/http with the defaults chat endpoints need and tracks
// basic request counters.
type Client struct {
	client       *http.Client
	config       ClientConfig
	requestCount int64
	successCount int64
	errorCount   int64
}

// ClientStats is a snapshot of the client's request counters.
type ClientStats struct {
	Requests  int64 `json:"requests"`
	Successes int64 `json:"successes"`
	Errors    int64 `json:"errors"`
}

// NewClient creates a client from config.
func NewClient(config ClientConfig) *Client {
	transport := &http.Transport{
		// Keep raw bytes; SSE with gzip can be problematic across proxies.
		DisableCompression: true,
	}

	var rt http.RoundTripper = transport
	if config.BearerToken != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.BearerToken}),
			Base:   transport,
		}
	}

	return &Client{
		client: &http.Client{
			// No client-wide timeout: a streaming response stays open
			// until the server closes it or the context is cancelled.
			Timeout:   0,
			Transport: rt,
		},
		config: config,
	}
}

// Do executes the request with the client's default headers applied.
// Headers already present on the request are not overwritten.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	atomic.AddInt64(&c.requestCount, 1)

	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		userAgent := c.config.UserAgent
		if userAgent == "" {
			userAgent = "chat-stream-kit/1.0"
		}
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		atomic.AddInt64(&c.errorCount, 1)
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		atomic.AddInt64(&c.successCount, 1)
	} else {
		atomic.AddInt64(&c.errorCount, 1)
	}
	return resp, nil
}

// RequestTimeout returns the configured non-streaming exchange bound.
func (c *Client) RequestTimeout() time.Duration {
	return c.config.RequestTimeout
}

// Stats returns a snapshot of the request counters.
func (c *Client) Stats() ClientStats {
	return ClientStats{
		Requests:  atomic.LoadInt64(&c.requestCount),
		Successes: atomic.LoadInt64(&c.successCount),
		Errors:    atomic.LoadInt64(&c.errorCount),
	}
}
