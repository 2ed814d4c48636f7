package apiclient

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

	"commerce-sync/core/apperrors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.example.com/v1".
	BaseURL string
	// Headers are sent on every request (authentication tokens).
	Headers map[string]string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries int
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps the backoff delay.
	MaxInterval time.Duration
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
	// Logger receives retry notifications.
	Logger *zap.Logger
}

// Client is a small JSON-over-HTTP client with retry on transient failures.
type Client struct {
	baseURL    string
	headers    map[string]string
	http       *http.Client
	maxRetries int
	initial    time.Duration
	maxDelay   time.Duration
	logger     *zap.Logger
}

// New creates a Client. Zero values fall back to 30s timeout, 3 retries and
// a 500ms initial backoff.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          20,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		}
	}
	initial := opts.InitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	maxDelay := opts.MaxInterval
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		headers:    opts.Headers,
		http:       httpClient,
		maxRetries: maxRetries,
		initial:    initial,
		maxDelay:   maxDelay,
		logger:     logger,
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Do performs a request, retrying transient failures with exponential backoff.
// Non-2xx responses are returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	operation := func() error {
		return c.attempt(ctx, method, endpoint, payload, out)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initial
	policy.MaxInterval = c.maxDelay
	policy.MaxElapsedTime = 0
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	return backoff.RetryNotify(operation, retry, notify)
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return &Error{Method: method, URL: endpoint, Kind: apperrors.CategoryTransient, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Method: method, URL: endpoint, Status: resp.StatusCode, Kind: apperrors.CategoryTransient, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(method, endpoint, resp.StatusCode, data)
		if apiErr.Kind == apperrors.CategoryTransient {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err))
	}
	return nil
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
