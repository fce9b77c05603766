package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds configuration for the collector HTTP client
type HTTPClientConfig struct {
	Timeout      time.Duration // first-attempt budget
	RetryTimeout time.Duration // second-attempt budget, more generous
	RateLimit    float64       // requests per second
	UserAgent    string
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:      10 * time.Second,
		RetryTimeout: 15 * time.Second,
		RateLimit:    2.0,
		UserAgent:    "courtside/1.0",
	}
}

// RateLimitedHTTPClient wraps two retryablehttp clients behind a shared rate
// limiter. A request gets one quick attempt and, on failure, one patient
// attempt with the longer timeout. Public sports endpoints are slow far more
// often than they are down, so the second budget recovers most transient
// failures without a full backoff loop.
type RateLimitedHTTPClient struct {
	quick     *retryablehttp.Client
	patient   *retryablehttp.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *logrus.Logger
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	return &RateLimitedHTTPClient{
		quick:     newRetryClient(cfg.Timeout),
		patient:   newRetryClient(cfg.RetryTimeout),
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

func newRetryClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = 0 // the two-attempt budget lives in Get, not here
	client.Logger = nil
	client.CheckRetry = retryablehttp.DefaultRetryPolicy
	return client
}

// Get fetches a URL with rate limiting and the two-attempt budget
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.do(ctx, c.quick, url)
	if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	if resp != nil {
		resp.Body.Close()
	}
	if c.logger != nil {
		c.logger.WithField("url", url).WithError(err).Debug("first fetch attempt failed, retrying with longer timeout")
	}

	resp, err = c.do(ctx, c.patient, url)
	if err != nil {
		return nil, fmt.Errorf("fetch failed after retry: %w", err)
	}
	return resp, nil
}

func (c *RateLimitedHTTPClient) do(ctx context.Context, client *retryablehttp.Client, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return client.Do(req)
}

// Close releases idle connections held by the client
func (c *RateLimitedHTTPClient) Close() {
	c.quick.HTTPClient.CloseIdleConnections()
	c.patient.HTTPClient.CloseIdleConnections()
}
