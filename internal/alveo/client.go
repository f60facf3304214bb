// Package alveo talks to an Alveo-style annotation store over REST: it reads
// item lists and primary texts and uploads converted annotation records.
package alveo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"annbridge/internal/retry"
)

// APIKeyHeader carries the API key on every request.
const APIKeyHeader = "X-API-KEY"

var ErrMissingBaseURL = errors.New("alveo: base url is required")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("alveo %s %s failed: %s", e.Method, e.URL, e.Status)
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retry   retry.Config
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client is a minimal REST client for the store.
type Client struct {
	baseURL string
	apiKey  string
	retry   retry.Config
	client  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	rc := cfg.Retry
	if rc.MaxAttempts == 0 {
		rc = retry.DefaultConfig()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		retry:   rc,
		client:  hc,
	}, nil
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// resolve turns a service path into an absolute URL. Absolute URLs, such as
// the item URLs of an item list, pass through unchanged.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	payload, err := c.do(ctx, http.MethodGet, c.resolve(path), nil, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("alveo GET %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	payload, err := c.do(ctx, http.MethodGet, c.resolve(path), nil, "text/plain")
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, c.resolve(path), data, "application/json")
	return err
}

// do sends one request with retries. Transport failures, 429 and 5xx are
// retried; any other non-2xx status is returned at once. A POST is retried
// only on 429, since any other failure may already have stored the batch.
func (c *Client) do(ctx context.Context, method, url string, body []byte, accept string) ([]byte, error) {
	idempotent := method != http.MethodPost
	return retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, retry.NonRetryable(err)
		}
		req.Header.Set("Accept", accept)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set(APIKeyHeader, c.apiKey)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil || !idempotent {
				return nil, retry.NonRetryable(err)
			}
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			serr := &StatusError{Method: method, URL: url, Code: resp.StatusCode, Status: resp.Status}
			if serr.Temporary() && (idempotent || serr.Code == http.StatusTooManyRequests) {
				return nil, serr
			}
			return nil, retry.NonRetryable(serr)
		}
		return io.ReadAll(resp.Body)
	})
}
