package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/glm-statusline/internal/logger"
)

var (
	// ErrTimeout is returned when a request does not complete within the client timeout.
	ErrTimeout = errors.New("monitor request timed out")
	// ErrInvalidJSON is returned when a 200 response body is not valid JSON.
	ErrInvalidJSON = errors.New("monitor response is not valid JSON")
)

// maxResponseSize caps how much of a response body is read. A truncated body
// fails JSON validation.
const maxResponseSize = 1 << 20

// StatusError is returned for any non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("monitor request to %s failed (status %d)", e.URL, e.Code)
}

// Client performs single, unretried GET requests against the monitor API.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client with the given per-request timeout.
// Keep-alives are disabled so every call uses its own connection.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		timeout: timeout,
	}
}

// NewClientWithHTTP creates a client on top of an existing http.Client.
func NewClientWithHTTP(httpClient *http.Client, timeout time.Duration) *Client {
	c := NewClient(timeout)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get fetches rawURL with the given query and returns the parsed JSON body.
func (c *Client) Get(ctx context.Context, rawURL, token string, query url.Values) (gjson.Result, error) {
	reqURL := rawURL
	if len(query) > 0 {
		reqURL = rawURL + "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to create monitor request: %w", err)
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept-Language", "en-US,en")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return gjson.Result{}, fmt.Errorf("%w after %s: %s", ErrTimeout, c.timeout, rawURL)
		}
		return gjson.Result{}, fmt.Errorf("monitor request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debug("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return gjson.Result{}, fmt.Errorf("%w after %s: %s", ErrTimeout, c.timeout, rawURL)
		}
		return gjson.Result{}, fmt.Errorf("failed to read monitor response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidJSON
	}

	return gjson.ParseBytes(body), nil
}
