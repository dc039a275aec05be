// Package catalog fetches star metadata and raw photometry from the
// archive service over HTTP.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPClient fetches catalog data over HTTP with retries and backoff.
type HTTPClient struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new catalog client for the given archive base URL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET with retries and exponential backoff, decoding the
// JSON body into result.
func (c *HTTPClient) get(ctx context.Context, path string, result interface{}) error {
	endpoint := c.baseURL + path

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		// Not-found is definitive, no point retrying.
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", path, ErrStarNotFound)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// starResponse is the archive payload for one star.
type starResponse struct {
	StarID    string  `json:"star_id"`
	Name      string  `json:"name"`
	RA        float64 `json:"ra"`
	Dec       float64 `json:"dec"`
	Magnitude float64 `json:"magnitude"`
	Mission   string  `json:"mission"`
}

// lightCurveResponse is the archive payload for one star's photometry.
type lightCurveResponse struct {
	StarID  string    `json:"star_id"`
	Time    []float64 `json:"time"`
	Flux    []float64 `json:"flux"`
	FluxErr []float64 `json:"flux_err"`
	Quality []int     `json:"quality"`
}

// FetchStarMetadata retrieves catalog metadata for one star.
func (c *HTTPClient) FetchStarMetadata(ctx context.Context, starID string) (*domain.StarMetadata, error) {
	var resp starResponse
	path := "/stars/" + url.PathEscape(starID)
	start := time.Now()
	err := c.get(ctx, path, &resp)
	observability.DefaultMetrics.CatalogLatency.WithLabelValues("metadata").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	return &domain.StarMetadata{
		StarID:    resp.StarID,
		Name:      resp.Name,
		RA:        resp.RA,
		Dec:       resp.Dec,
		Magnitude: resp.Magnitude,
		Mission:   resp.Mission,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

// FetchLightCurve retrieves the raw photometric series for one star.
// The archive returns parallel arrays; they must agree in length.
func (c *HTTPClient) FetchLightCurve(ctx context.Context, starID string) (*domain.LightCurve, error) {
	var resp lightCurveResponse
	path := "/stars/" + url.PathEscape(starID) + "/lightcurve"
	start := time.Now()
	err := c.get(ctx, path, &resp)
	observability.DefaultMetrics.CatalogLatency.WithLabelValues("lightcurve").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	n := len(resp.Time)
	if len(resp.Flux) != n || len(resp.FluxErr) != n || len(resp.Quality) != n {
		return nil, fmt.Errorf("star %s: mismatched series lengths (time=%d flux=%d flux_err=%d quality=%d): %w",
			starID, n, len(resp.Flux), len(resp.FluxErr), len(resp.Quality), ErrMalformedSeries)
	}

	samples := make([]domain.Sample, n)
	for i := 0; i < n; i++ {
		samples[i] = domain.Sample{
			Time:    resp.Time[i],
			Flux:    resp.Flux[i],
			FluxErr: resp.FluxErr[i],
			Quality: domain.Quality(resp.Quality[i]),
		}
	}

	lc, err := domain.NewLightCurve(starID, samples)
	if err != nil {
		return nil, fmt.Errorf("star %s: %w", starID, err)
	}
	return lc, nil
}
