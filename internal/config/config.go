package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the animatch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Provider  ProviderConfig  `yaml:"provider"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Cache     CacheConfig     `yaml:"cache"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ProviderConfig holds catalog provider (Jikan) client settings.
type ProviderConfig struct {
	BaseURL           string        `yaml:"base_url"`
	TimeoutSec        int           `yaml:"timeout_sec"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // Jikan allows ~3 req/s
	Burst             int           `yaml:"burst"`
	Breaker           BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for provider calls.
type BreakerConfig struct {
	FailureThreshold uint32 `yaml:"failure_threshold"` // 0 disables the breaker
	OpenTimeoutSec   int    `yaml:"open_timeout_sec"`
	HalfOpenRequests uint32 `yaml:"half_open_requests"`
}

// CorpusConfig holds corpus build and ranking settings.
type CorpusConfig struct {
	MaxPages           int `yaml:"max_pages"`
	RefreshIntervalSec int `yaml:"refresh_interval_sec"` // 0 disables periodic rebuilds
	BuildTimeoutSec    int `yaml:"build_timeout_sec"`
	TrendingLimit      int `yaml:"trending_limit"`
	RecommendLimit     int `yaml:"recommend_limit"`
}

// CatalogConfig holds category and vectorizer vocabulary settings.
type CatalogConfig struct {
	PageSize          int                          `yaml:"page_size"`
	LiveOnly          map[string]map[string]string `yaml:"live_only"` // category -> provider params
	SpecialCategories []string                     `yaml:"special_categories"`
	StopWords         []string                     `yaml:"stop_words"`       // replaces the built-in English list
	ExtraStopWords    []string                     `yaml:"extra_stop_words"` // added to the stop word list
	PlaceholderImage  string                       `yaml:"placeholder_image"`
}

// CacheConfig holds the optional lookup cache store settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CORSConfig holds CORS settings for the browser frontend.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds per-IP API rate limiting settings.
type RateLimitConfig struct {
	Requests  int `yaml:"requests"` // 0 disables rate limiting
	WindowSec int `yaml:"window_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.jikan.moe/v4"
	}
	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = 10
	}
	if c.Provider.Burst <= 0 {
		c.Provider.Burst = 1
	}
	if c.Provider.Breaker.OpenTimeoutSec <= 0 {
		c.Provider.Breaker.OpenTimeoutSec = 30
	}
	if c.Provider.Breaker.HalfOpenRequests == 0 {
		c.Provider.Breaker.HalfOpenRequests = 1
	}
	if c.Corpus.MaxPages <= 0 {
		c.Corpus.MaxPages = 40
	}
	if c.Corpus.BuildTimeoutSec <= 0 {
		c.Corpus.BuildTimeoutSec = 300
	}
	if c.Corpus.TrendingLimit <= 0 {
		c.Corpus.TrendingLimit = 25
	}
	if c.Corpus.RecommendLimit <= 0 {
		c.Corpus.RecommendLimit = 10
	}
	if c.Catalog.PageSize <= 0 {
		c.Catalog.PageSize = 20
	}
	if c.Catalog.LiveOnly == nil {
		c.Catalog.LiveOnly = map[string]map[string]string{
			"Hentai":    {"genres": "12", "rating": "rx"},
			"Adventure": {"genres": "2"},
		}
	}
	if c.Catalog.SpecialCategories == nil {
		for name := range c.Catalog.LiveOnly {
			c.Catalog.SpecialCategories = append(c.Catalog.SpecialCategories, name)
		}
		sort.Strings(c.Catalog.SpecialCategories)
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 60 * 60
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "animatch:lookup:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.RateLimit.WindowSec <= 0 {
		c.RateLimit.WindowSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("provider.requests_per_second must not be negative, got %v", c.Provider.RequestsPerSecond)
	}
	if c.Cache.Enabled {
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when the cache is enabled")
		}
		switch c.Cache.Driver {
		case "valkey", "redis":
			// ok
		default:
			return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
		}
	}
	for name, params := range c.Catalog.LiveOnly {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("catalog.live_only has an empty category name")
		}
		if len(params) == 0 {
			return fmt.Errorf("catalog.live_only.%s must define provider params", name)
		}
	}
	if c.Corpus.RefreshIntervalSec < 0 {
		return fmt.Errorf("corpus.refresh_interval_sec must not be negative, got %d", c.Corpus.RefreshIntervalSec)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must not be negative, got %d", c.RateLimit.Requests)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
