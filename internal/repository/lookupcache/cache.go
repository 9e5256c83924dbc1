// Package lookupcache caches provider title lookups in a key-value store.
// Only positive results are cached; the cache is best-effort and every
// store failure is logged and treated as a miss.
package lookupcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/db"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// DefaultKeyPrefix namespaces lookup keys.
const DefaultKeyPrefix = "animatch:lookup:"

// store is the consumer interface for the lookup cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores raw provider records keyed by normalized title.
type Cache struct {
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a lookup cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		prefix:     DefaultKeyPrefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithKeyPrefix overrides the key prefix.
func (c *Cache) WithKeyPrefix(prefix string) *Cache {
	c.prefix = prefix
	return c
}

// Get returns the cached record for title.
func (c *Cache) Get(ctx context.Context, title string) (*item.Raw, bool) {
	key := c.key(title)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached lookup", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return nil, false
	}

	var raw item.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("Failed to parse cached lookup", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return nil, false
	}

	c.inc("hit")
	return &raw, true
}

// Put stores the record found for title.
func (c *Cache) Put(ctx context.Context, title string, raw *item.Raw) {
	if raw == nil {
		return
	}
	key := c.key(title)

	data, err := json.Marshal(raw)
	if err != nil {
		c.logger.Warn("Failed to encode lookup", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache lookup", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) key(title string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(title))))
	return c.prefix + hex.EncodeToString(h[:])
}
