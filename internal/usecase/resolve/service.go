package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// DefaultLookupTimeout bounds a shared provider lookup.
const DefaultLookupTimeout = 15 * time.Second

// Result is a resolved title.
type Result struct {
	Item  item.Item
	Local bool // found in the corpus; false means fetched from the provider
}

// Service resolves titles against the corpus, falling back to the provider.
// Fallback records are never added to the corpus.
type Service struct {
	snapshots SnapshotLoader
	provider  Provider
	cache     Cache
	group     singleflight.Group
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service.
func New(snapshots SnapshotLoader, provider Provider, logger *zap.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		provider:  provider,
		timeout:   DefaultLookupTimeout,
		logger:    logger,
	}
}

// WithLookupTimeout overrides the timeout of a shared provider lookup.
func (s *Service) WithLookupTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithCache enables caching of provider lookups.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Resolve resolves title against the current snapshot.
func (s *Service) Resolve(ctx context.Context, title string) (Result, error) {
	return s.ResolveIn(ctx, s.snapshots.Load(), title)
}

// ResolveIn resolves title against snap. Provider failures degrade to
// domain.ErrItemNotFound.
func (s *Service) ResolveIn(ctx context.Context, snap *corpus.Snapshot, title string) (Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Result{}, fmt.Errorf("title is required: %w", domain.ErrInvalidQuery)
	}

	if it, ok := snap.FindByTitle(title); ok {
		return Result{Item: it, Local: true}, nil
	}

	raw, err := s.lookup(ctx, title)
	if err != nil {
		s.logger.Warn("Provider lookup failed",
			zap.String("title", title),
			zap.Error(err),
		)
		return Result{}, domain.NewNotFound(title)
	}
	if raw == nil {
		return Result{}, domain.NewNotFound(title)
	}

	return Result{Item: item.Normalize(raw)}, nil
}

// lookup asks the cache, then the provider. Concurrent lookups of the same
// title share one provider call. The shared call is detached from any single
// caller's cancellation; each caller stops waiting when its own ctx is done.
func (s *Service) lookup(ctx context.Context, title string) (*item.Raw, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, title); ok {
			return raw, nil
		}
	}

	key := strings.ToLower(title)
	ch := s.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		raw, err := s.provider.SearchOne(fctx, title)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", title, err)
		}
		if raw != nil && s.cache != nil {
			s.cache.Put(fctx, title, raw)
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search %q: %w", title, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		raw, _ := res.Val.(*item.Raw)
		return raw, nil
	}
}
