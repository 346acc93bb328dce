// Package provider contains the external data clients feeding the pipeline:
// the market odds API, the final scores API and the opening line sheet.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for provider HTTP clients
type HTTPClientConfig struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:      30 * time.Second,
		MaxRetries:   4,
		RetryWaitMin: 250 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    2.0,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with client-side rate
// limiting. Both provider APIs meter by request, so every call goes through
// the limiter before it leaves the process.
type RateLimitedHTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, log *logrus.Logger) *RateLimitedHTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil
	if log != nil {
		retryClient.Logger = log
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultHTTPClientConfig().RateLimit
	}

	return &RateLimitedHTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(limit), 1),
	}
}

// Do executes an HTTP request after clearing the rate limiter
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	rreq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return c.client.Do(rreq.WithContext(ctx))
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// Close releases idle connections held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// drainBody reads a capped error body for diagnostics.
func drainBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}

// retryPolicy retries network errors, 429 and 5xx; other 4xx fail fast.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
