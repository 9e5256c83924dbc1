package animatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/db"
	dbRedis "github.com/kailas-cloud/animatch/internal/db/redis"
	"github.com/kailas-cloud/animatch/internal/domain"
	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/domain/tfidf"
	"github.com/kailas-cloud/animatch/internal/repository/lookupcache"
	"github.com/kailas-cloud/animatch/internal/transport/jikan"
	categoryuc "github.com/kailas-cloud/animatch/internal/usecase/category"
	corpusuc "github.com/kailas-cloud/animatch/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/animatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/animatch/internal/usecase/recommend"
	resolveuc "github.com/kailas-cloud/animatch/internal/usecase/resolve"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultProviderTimeout  = 10 * time.Second
	defaultRPS              = 2
	defaultCacheTTL         = 24 * time.Hour
)

// Internal interfaces, replaced in tests.
type recommendUseCase interface {
	Recommend(ctx context.Context, title string) (recommenduc.Recommendation, error)
	Trending(limit int) []item.Item
}

type categoryUseCase interface {
	Query(ctx context.Context, category string, page int) (categoryuc.Page, error)
	ListGenres() []string
}

type corpusUseCase interface {
	Build(ctx context.Context) (*domcorpus.Snapshot, error)
}

// Client is the animatch SDK entry point.
type Client struct {
	store     db.Store // nil without a lookup cache
	recSvc    recommendUseCase
	catSvc    categoryUseCase
	corpusSvc corpusUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and builds the corpus. The provided context bounds
// the cache readiness check and the initial build. An empty corpus is not an
// error: live genres still work and Rebuild can be retried.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:  jikan.DefaultBaseURL,
		rps:      defaultRPS,
		burst:    1,
		maxPages: corpusuc.DefaultMaxPages,
		cacheTTL: defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("animatch: cache not ready: %w", err)
		}
	}

	c := wireClient(store, cfg, obs)
	if err := c.Rebuild(ctx); err != nil && !errors.Is(err, domain.ErrEmptyCorpus) {
		c.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		// Both speak RESP; rueidis serves either.
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("animatch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("animatch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	logger := zap.NewNop()

	provider := jikan.NewClient(&jikan.Config{
		BaseURL:           cfg.baseURL,
		Timeout:           defaultProviderTimeout,
		RequestsPerSecond: cfg.rps,
		Burst:             cfg.burst,
		HTTPClient:        cfg.httpClient,
		Logger:            logger,
	})

	holder := domcorpus.NewHolder()
	corpusSvc := corpusuc.New(provider, holder, logger).WithMaxPages(cfg.maxPages)
	if len(cfg.extraStopWords) > 0 {
		corpusSvc = corpusSvc.WithVectorizerOptions(tfidf.WithExtraStopWords(cfg.extraStopWords))
	}

	resolver := resolveuc.New(holder, provider, logger)
	var cachePinger healthuc.Pinger
	if store != nil {
		resolver = resolver.WithCache(lookupcache.New(store, cfg.cacheTTL, nil, logger))
		cachePinger = store
	}

	return &Client{
		store:     store,
		recSvc:    recommenduc.New(holder, resolver, logger).WithLimits(cfg.recommendLimit, 0),
		catSvc:    categoryuc.New(holder, provider, categoryuc.Config{}, logger),
		corpusSvc: corpusSvc,
		healthSvc: healthuc.New(holder, provider, cachePinger),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Rebuild refetches the corpus and swaps it in. Queries running during the
// rebuild finish on the previous corpus. A failed or incomplete refetch keeps
// the previous corpus and returns ErrProviderUnavailable.
func (c *Client) Rebuild(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("rebuild", start, err) }()

	snap, err := c.corpusSvc.Build(ctx)
	if snap != nil {
		c.obs.corpusBuilt(snap.Len())
	}
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return nil
}

// Recommend returns the corpus entries most similar to title. Titles missing
// from the corpus are looked up on the provider. Returns ErrNotFound when
// neither source knows the title.
func (c *Client) Recommend(ctx context.Context, title string) (_ *Recommendation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	rec, err := c.recSvc.Recommend(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return &Recommendation{
		Query:   animeFromItem(&rec.Query),
		Local:   rec.Local,
		Matches: matchesFromDomain(rec.Matches),
	}, nil
}

// Trending returns the first limit corpus entries in provider rank order.
// limit <= 0 returns the default of 25.
func (c *Client) Trending(limit int) []Anime {
	start := time.Now()
	defer c.obs.observe("trending", start, nil)

	return animeFromItems(c.recSvc.Trending(limit))
}

// Genres returns every genre that can be passed to ByGenre, sorted.
func (c *Client) Genres() []string {
	start := time.Now()
	defer c.obs.observe("genres", start, nil)

	return c.catSvc.ListGenres()
}

// ByGenre returns one page (1-based) of a genre listing, best rated first.
func (c *Client) ByGenre(ctx context.Context, genre string, page int) (_ *GenrePage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("by_genre", start, err) }()

	p, err := c.catSvc.Query(ctx, genre, page)
	if err != nil {
		return nil, fmt.Errorf("by genre: %w", err)
	}
	return genrePageFromDomain(&p), nil
}
