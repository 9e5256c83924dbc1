package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/config"
	"github.com/kailas-cloud/animatch/internal/db"
	dbRedis "github.com/kailas-cloud/animatch/internal/db/redis"
	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/catalog"
	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/tfidf"
	logpkg "github.com/kailas-cloud/animatch/internal/logger"
	"github.com/kailas-cloud/animatch/internal/metrics"
	"github.com/kailas-cloud/animatch/internal/repository/lookupcache"
	chiTransport "github.com/kailas-cloud/animatch/internal/transport/chi"
	"github.com/kailas-cloud/animatch/internal/transport/jikan"
	categoryuc "github.com/kailas-cloud/animatch/internal/usecase/category"
	corpusuc "github.com/kailas-cloud/animatch/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/animatch/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/animatch/internal/usecase/recommend"
	resolveuc "github.com/kailas-cloud/animatch/internal/usecase/resolve"
	"github.com/kailas-cloud/animatch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting animatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("provider", cfg.Provider.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register catalog metrics explicitly (no init())
	metrics.RegisterCatalogMetrics()

	provider := jikan.NewClient(&jikan.Config{
		BaseURL:           cfg.Provider.BaseURL,
		Timeout:           time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		Burst:             cfg.Provider.Burst,
		Breaker: jikan.BreakerConfig{
			FailureThreshold: cfg.Provider.Breaker.FailureThreshold,
			OpenTimeout:      time.Duration(cfg.Provider.Breaker.OpenTimeoutSec) * time.Second,
			HalfOpenRequests: cfg.Provider.Breaker.HalfOpenRequests,
		},
		Logger: logger,
	})

	// Optional lookup cache store. Valkey speaks the Redis protocol, so both
	// drivers share the rueidis store.
	ctx := context.Background()
	var store db.Store
	if cfg.Cache.Enabled {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)
	}

	// Corpus: built synchronously before the listener starts.
	holder := domcorpus.NewHolder()
	builder := corpusuc.New(provider, holder, logger).
		WithMaxPages(cfg.Corpus.MaxPages).
		WithVectorizerOptions(vectorizerOptions(cfg.Catalog)...)

	buildTimeout := time.Duration(cfg.Corpus.BuildTimeoutSec) * time.Second
	if err := buildCorpus(ctx, builder, buildTimeout); err != nil {
		logger.Warn("Serving with an empty corpus", zap.Error(err))
	}

	// Use case services
	resolver := resolveuc.New(holder, provider, logger)
	var cachePinger healthuc.Pinger
	if store != nil {
		resolver.WithCache(
			lookupcache.New(store, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.LookupCacheTotal, logger).
				WithKeyPrefix(cfg.Cache.KeyPrefix),
		)
		cachePinger = store
	}
	recommendSvc := recommenduc.New(holder, resolver, logger).
		WithLimits(cfg.Corpus.RecommendLimit, cfg.Corpus.TrendingLimit)
	categorySvc := categoryuc.New(holder, provider, categoryuc.Config{
		PageSize:         cfg.Catalog.PageSize,
		LiveOnly:         liveOnly(cfg.Catalog.LiveOnly),
		Special:          cfg.Catalog.SpecialCategories,
		PlaceholderImage: cfg.Catalog.PlaceholderImage,
	}, logger)
	healthSvc := healthuc.New(holder, provider, cachePinger)

	server := chiTransport.NewServer(recommendSvc, categorySvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		CORS: chiTransport.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         time.Duration(cfg.CORS.MaxAgeSec) * time.Second,
		},
		RateLimit: chiTransport.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   time.Duration(cfg.RateLimit.WindowSec) * time.Second,
		},
		Logger: logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	if cfg.Corpus.RefreshIntervalSec > 0 {
		go refreshLoop(refreshCtx, builder, time.Duration(cfg.Corpus.RefreshIntervalSec)*time.Second, buildTimeout, logger)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func buildCorpus(ctx context.Context, builder *corpusuc.Service, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := builder.Build(ctx)
	return err
}

// refreshLoop rebuilds the corpus every interval. Requests in flight keep
// the snapshot they loaded.
func refreshLoop(
	ctx context.Context, builder *corpusuc.Service, interval, timeout time.Duration, logger *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := buildCorpus(ctx, builder, timeout); err != nil && !errors.Is(err, domain.ErrEmptyCorpus) {
				logger.Error("Corpus refresh failed", zap.Error(err))
			}
		}
	}
}

func vectorizerOptions(cfg config.CatalogConfig) []tfidf.Option {
	var opts []tfidf.Option
	if cfg.StopWords != nil {
		opts = append(opts, tfidf.WithStopWords(cfg.StopWords))
	}
	if len(cfg.ExtraStopWords) > 0 {
		opts = append(opts, tfidf.WithExtraStopWords(cfg.ExtraStopWords))
	}
	return opts
}

func liveOnly(m map[string]map[string]string) map[string]catalog.Params {
	out := make(map[string]catalog.Params, len(m))
	for name, params := range m {
		out[name] = catalog.Params(params)
	}
	return out
}
