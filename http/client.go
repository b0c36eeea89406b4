package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 1 * time.Second

// Client provides common HTTP functionality for service clients.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceName string
	maxAttempts int
	retryWait   time.Duration

	// beforeRequest is called before each request (for auth headers, etc.)
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client      *http.Client
	BaseURL     string
	ServiceName string

	// MaxAttempts is the total number of tries per request. With the
	// default of 1 a transport failure surfaces immediately.
	MaxAttempts   int
	RetryWait     time.Duration
	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		baseURL:       cfg.BaseURL,
		serviceName:   cfg.ServiceName,
		maxAttempts:   cfg.MaxAttempts,
		retryWait:     cfg.RetryWait,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	if c.retryWait <= 0 {
		c.retryWait = DefaultRetryWait
	}

	return c
}

// Request executes an HTTP request, retrying transient failures when the
// client is configured with more than one attempt.
func (c *Client) Request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		if c.beforeRequest != nil {
			c.beforeRequest(req)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s request failed: %w", c.serviceName, err)
			if attempt < c.maxAttempts-1 {
				if werr := c.wait(ctx, c.retryWait*time.Duration(1<<attempt)); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, lastErr
		}

		if retryableStatus(resp.StatusCode) && attempt < c.maxAttempts-1 {
			wait := c.retryAfter(resp, attempt)
			resp.Body.Close()
			if werr := c.wait(ctx, wait); werr != nil {
				return nil, werr
			}
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// Post performs a POST request and decodes the response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	resp, err := c.Request(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, path, result)
}

// Get performs a GET request and decodes the response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	resp, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp, path, result)
}

// handleResponse checks status and decodes the response body.
func (c *Client) handleResponse(resp *http.Response, path string, result any) error {
	if resp.StatusCode >= 400 {
		return c.parseError(resp, path)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", c.serviceName, err)
	}

	return nil
}

// parseError parses an error response into an APIError.
func (c *Client) parseError(resp *http.Response, path string) error {
	body, _ := io.ReadAll(resp.Body)

	apiErr := &APIError{
		Service:    c.serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	// Try to parse an error message from the body
	var errResp struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.Message != "":
			apiErr.Message = errResp.Message
		case errResp.Error.Message != "":
			apiErr.Message = errResp.Error.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}

	return apiErr
}

// wait sleeps for d or until the context is cancelled.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// retryAfter computes the wait before the next attempt, honoring a
// Retry-After header when present.
func (c *Client) retryAfter(resp *http.Response, attempt int) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.retryWait * time.Duration(1<<attempt)
}

// retryableStatus reports whether the status code indicates a transient
// failure.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
