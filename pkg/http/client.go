// Package http provides the outbound HTTP client used to call the hospital
// backend collaborators (permission fetch, panel lookup, session token).
// The client injects the cached bearer token, retries with exponential
// backoff and re-authenticates once on 401.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/salusbr/admincore/pkg/logger"
)

// Client is an HTTP client with automatic token management and retry logic.
type Client struct {
	httpClient    *http.Client
	tokenCache    *TokenCache
	logger        logger.LogManager
	retryMax      int
	retryDelay    time.Duration
	requestHooks  []RequestHook
	responseHooks []ResponseHook
}

// RequestHook can modify a request before it is sent.
type RequestHook func(*http.Request) error

// ResponseHook can process a response after it is received.
type ResponseHook func(*http.Response) error

// ClientOption configures the HTTP client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTokenProvider sets the token provider for backend authentication.
func WithTokenProvider(provider TokenProvider, refreshBuffer time.Duration) ClientOption {
	return func(c *Client) {
		c.tokenCache = NewTokenCache(provider, refreshBuffer)
	}
}

// WithLogger sets a logger for the client.
func WithLogger(l logger.LogManager) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRetry configures retry behavior. maxAttempts includes the first try;
// delay is the initial backoff and doubles per attempt.
func WithRetry(maxAttempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryMax = maxAttempts
		c.retryDelay = delay
	}
}

// WithRequestHook adds a hook that runs before each request.
func WithRequestHook(hook RequestHook) ClientOption {
	return func(c *Client) {
		c.requestHooks = append(c.requestHooks, hook)
	}
}

// WithResponseHook adds a hook that runs after each response.
func WithResponseHook(hook ResponseHook) ClientOption {
	return func(c *Client) {
		c.responseHooks = append(c.responseHooks, hook)
	}
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryMax:   3,
		retryDelay: 100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do executes an HTTP request with token injection and retry logic.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.applyRequestHooks(req); err != nil {
		return nil, err
	}
	if err := c.injectToken(ctx, req); err != nil {
		return nil, err
	}

	bodyBytes, err := c.readRequestBody(req)
	if err != nil {
		return nil, err
	}

	return c.executeWithRetry(ctx, req, bodyBytes)
}

func (c *Client) applyRequestHooks(req *http.Request) error {
	for _, hook := range c.requestHooks {
		if err := hook(req); err != nil {
			return fmt.Errorf("request hook failed: %w", err)
		}
	}
	return nil
}

func (c *Client) injectToken(ctx context.Context, req *http.Request) error {
	if c.tokenCache == nil {
		return nil
	}

	token, err := c.tokenCache.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// readRequestBody buffers the request body once so retries can replay it.
func (c *Client) readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	return bodyBytes, nil
}

func (c *Client) executeWithRetry(ctx context.Context, req *http.Request, bodyBytes []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.retryMax; attempt++ {
		if attempt > 0 {
			if err := c.waitForRetry(ctx, attempt); err != nil {
				return nil, err
			}
		}

		resp, err := c.executeRequest(ctx, req, bodyBytes, attempt)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.WarnF("request failed: %v (attempt %d/%d)", err, attempt+1, c.retryMax)
			}
			continue
		}

		if err := c.applyResponseHooks(resp); err != nil {
			resp.Body.Close()
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized && c.tokenCache != nil && attempt < c.retryMax-1 {
			resp.Body.Close()
			if c.logger != nil {
				c.logger.InfoF("received 401, invalidating token and retrying")
			}
			c.tokenCache.Invalidate()
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryMax, lastErr)
}

func (c *Client) waitForRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
	if c.logger != nil {
		c.logger.DebugF("retrying request after %v (attempt %d/%d)", delay, attempt+1, c.retryMax)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (c *Client) executeRequest(ctx context.Context, req *http.Request, bodyBytes []byte, attempt int) (*http.Response, error) {
	reqClone := req.Clone(ctx)
	if len(bodyBytes) > 0 {
		reqClone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	if c.tokenCache != nil && attempt > 0 {
		token, err := c.tokenCache.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get token for retry: %w", err)
		}
		reqClone.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(reqClone)
}

func (c *Client) applyResponseHooks(resp *http.Response) error {
	for _, hook := range c.responseHooks {
		if err := hook(resp); err != nil {
			return fmt.Errorf("response hook failed: %w", err)
		}
	}
	return nil
}

// DoJSON performs a request and unmarshals the JSON response.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, v interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetJSON performs a GET request and unmarshals the JSON response.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.DoJSON(ctx, req, v)
}

// PostJSON performs a POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) PostJSON(ctx context.Context, url string, body interface{}, v interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.DoJSON(ctx, req, v)
}
