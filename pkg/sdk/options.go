package animatch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	rps        float64
	burst      int

	maxPages       int
	recommendLimit int
	extraStopWords []string

	driver   string // "valkey" or "redis", empty disables the lookup cache
	addrs    []string
	password string
	cacheTTL time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithJikan overrides the Jikan API base URL.
func WithJikan(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
	})
}

// WithHTTPClient sets the HTTP client used for provider calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRateLimit caps provider calls per second. rps <= 0 disables the limiter.
// Default: 2 requests per second, burst 1.
func WithRateLimit(rps float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rps = rps
		c.burst = burst
	})
}

// WithMaxPages sets how many top-list pages make up the corpus.
// Default: 40.
func WithMaxPages(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPages = n
	})
}

// WithRecommendLimit sets the number of recommendations returned.
// Default: 10.
func WithRecommendLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.recommendLimit = n
	})
}

// WithExtraStopWords excludes additional words from the vocabulary.
func WithExtraStopWords(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extraStopWords = append(c.extraStopWords, words...)
	})
}

// WithValkey caches provider title lookups in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches provider title lookups in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCacheTTL sets how long cached lookups live. Default: 24h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
