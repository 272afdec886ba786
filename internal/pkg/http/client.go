package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/piresc/coingate/internal/pkg/circuitbreaker"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/retry"
)

// DefaultTimeout for outbound requests
const DefaultTimeout = 30 * time.Second

// RequestFunc builds a fresh request for every attempt so bodies are never reused
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Client wraps http.Client with a per-host circuit breaker and optional retries
type Client struct {
	httpClient *http.Client
	retrier    *retry.Retrier
	breakers   *circuitbreaker.Manager
	logger     *logger.ZapLogger
}

// Option customises a Client
type Option func(*Client)

// WithRetrier replaces the default retrier
func WithRetrier(r *retry.Retrier) Option {
	return func(c *Client) { c.retrier = r }
}

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new outbound HTTP client
func NewClient(log *logger.ZapLogger, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		retrier:    retry.NewWithDefaults(log),
		breakers:   circuitbreaker.NewManager(log),
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends the request built by build. Only idempotent calls should pass retryable=true.
func (c *Client) Do(ctx context.Context, build RequestFunc, retryable bool) (*http.Response, error) {
	initial, err := build(ctx)
	if err != nil {
		return nil, err
	}
	name := initial.URL.Host
	if name == "" {
		name = "unknown"
	}

	cfg := circuitbreaker.DefaultConfig(name)
	cfg.IsFailure = isUpstreamFailure

	var resp *http.Response
	attempt := func(ctx context.Context) error {
		req, err := build(ctx)
		if err != nil {
			return err
		}
		resp, err = c.send(req.WithContext(ctx))
		return err
	}

	err = c.breakers.ExecuteWithConfig(ctx, name, cfg, func(ctx context.Context) error {
		if retryable {
			return c.retrier.Execute(ctx, attempt)
		}
		return attempt(ctx)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	}
	return resp, nil
}

// PostForm posts an urlencoded form with the given extra headers
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string, retryable bool) (*http.Response, error) {
	body := form.Encode()
	return c.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}, retryable)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (c *Client) GetCircuitBreakerStats() map[string]circuitbreaker.CircuitBreakerStats {
	return c.breakers.GetStats()
}

// HTTPError represents a non-success status from an upstream
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Temporary reports whether the status is worth retrying
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

func isUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	return true
}
