// Package jikan is the catalog provider client for the Jikan v4 REST API.
package jikan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/catalog"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/metrics"
	"github.com/kailas-cloud/animatch/internal/version"
)

// DefaultBaseURL is the public Jikan v4 endpoint.
const DefaultBaseURL = "https://api.jikan.moe/v4"

const maxErrorBody = 512

// Config holds the provider client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables client-side rate limiting
	Burst             int
	Breaker           BreakerConfig
	HTTPClient        *http.Client // overrides Timeout when set
	Logger            *zap.Logger
}

// BreakerConfig configures the circuit breaker around provider calls.
type BreakerConfig struct {
	FailureThreshold uint32        // consecutive failures before opening, 0 disables the breaker
	OpenTimeout      time.Duration // time spent open before probing again
	HalfOpenRequests uint32
}

// Client calls the Jikan API. Every call is a single attempt; failures are
// wrapped in domain.ErrProviderUnavailable.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[catalog.Page]
	logger  *zap.Logger
}

// NewClient creates a Jikan client.
func NewClient(cfg *Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:    httpClient,
		baseURL: base,
		logger:  logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	if cfg.Breaker.FailureThreshold > 0 {
		c.breaker = newBreaker(cfg.Breaker, logger)
	}
	return c
}

func newBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[catalog.Page] {
	return gobreaker.NewCircuitBreaker[catalog.Page](gobreaker.Settings{
		Name:        "jikan",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.ProviderBreakerState.Set(float64(to))
			logger.Warn("Provider circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// TopAnime fetches one page of the top-ranked list (1-based page).
func (c *Client) TopAnime(ctx context.Context, page int) (catalog.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return c.call(ctx, "top", "/top/anime", q)
}

// SearchOne returns the single best match for title, or nil if there is none.
func (c *Client) SearchOne(ctx context.Context, title string) (*item.Raw, error) {
	q := url.Values{}
	q.Set("q", title)
	q.Set("limit", "1")
	p, err := c.call(ctx, "search", "/anime", q)
	if err != nil {
		return nil, err
	}
	if len(p.Records) == 0 {
		return nil, nil
	}
	return &p.Records[0], nil
}

// ListByParams fetches a filtered page of the catalog. params are passed
// through verbatim next to page and limit.
func (c *Client) ListByParams(ctx context.Context, params catalog.Params, page, limit int) (catalog.Page, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.call(ctx, "list", "/anime", q)
}

// Ping checks that the provider answers a minimal request. It bypasses the
// rate limiter and the circuit breaker so health checks neither use request
// quota nor trip the breaker for real traffic.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("limit", "1")
	if _, err := c.get(ctx, "ping", "/anime", q); err != nil {
		return fmt.Errorf("ping provider: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, endpoint, path string, q url.Values) (catalog.Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "rejected").Inc()
			return catalog.Page{}, fmt.Errorf("rate limit wait: %w: %w", err, domain.ErrProviderUnavailable)
		}
	}

	if c.breaker == nil {
		return c.get(ctx, endpoint, path, q)
	}

	p, err := c.breaker.Execute(func() (catalog.Page, error) {
		return c.get(ctx, endpoint, path, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "rejected").Inc()
		return catalog.Page{}, fmt.Errorf("%s: %w: %w", endpoint, err, domain.ErrProviderUnavailable)
	}
	return p, err
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) (catalog.Page, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("build request: %w: %w", err, domain.ErrProviderUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return catalog.Page{}, fmt.Errorf("%s request failed: %w: %w", endpoint, err, domain.ErrProviderUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return catalog.Page{}, fmt.Errorf("%s: provider returned %d: %s: %w",
			endpoint, resp.StatusCode, extractMessage(body), domain.ErrProviderUnavailable)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return catalog.Page{}, fmt.Errorf("%s: decode response: %w: %w", endpoint, err, domain.ErrProviderUnavailable)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return env.page(), nil
}

// envelope is the common Jikan list response.
type envelope struct {
	Data       []item.Raw  `json:"data"`
	Pagination *pagination `json:"pagination"`
}

type pagination struct {
	CurrentPage     int  `json:"current_page"`
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

func (e *envelope) page() catalog.Page {
	p := catalog.Page{Records: e.Data}
	if e.Pagination != nil {
		p.CurrentPage = e.Pagination.CurrentPage
		p.LastVisiblePage = e.Pagination.LastVisiblePage
		p.HasNextPage = e.Pagination.HasNextPage
	}
	return p
}

// extractMessage extracts the "message" field from a Jikan error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}
