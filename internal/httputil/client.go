// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited HTTP client shared by the
// E-utilities calls.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/citation-sleuth/internal/observability"
	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// maxBodyBytes caps how much of a response body is read into memory.
const maxBodyBytes = 8 << 20

// StatusError reports a non-2xx response from an endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err wraps a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client issues GET requests through a token bucket limiter. Every request
// waits for a token, carries the configured User-Agent and is recorded in
// the metrics. Requests are never retried. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	metrics   *observability.Metrics
}

// NewClient builds a Client. A nil hc gets a fresh http.Client with
// cfg.Timeout; a nil metrics gets a private registry.
func NewClient(cfg types.HTTPConfig, ratePerSecond float64, burst int, hc *http.Client, metrics *observability.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if ratePerSecond <= 0 {
		ratePerSecond = types.DefaultRateLimit
	}
	if burst <= 0 {
		burst = types.DefaultBurst
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	return &Client{
		http:      hc,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		userAgent: cfg.UserAgent,
		metrics:   metrics,
	}
}

// Get fetches url and returns the response body. endpoint names the call in
// errors and metric labels (e.g. "esearch"). A transport failure, a
// cancelled context or a non-2xx status is returned as an error.
func (c *Client) Get(ctx context.Context, endpoint, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter wait: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", endpoint, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.EutilsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.EutilsRequests.WithLabelValues(endpoint, observability.StatusLabel(0)).Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.EutilsRequests.WithLabelValues(endpoint, observability.StatusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", endpoint, err)
	}
	return body, nil
}
