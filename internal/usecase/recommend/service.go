package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/domain/ranking"
)

// DefaultTrendingLimit is the trending list length when none is configured.
const DefaultTrendingLimit = 25

// Recommendation is the resolved query item and its most similar corpus items.
type Recommendation struct {
	Query   item.Item
	Local   bool
	Matches []corpus.Match
}

// Service answers similarity and trending queries.
type Service struct {
	snapshots     SnapshotLoader
	resolver      Resolver
	limit         int
	trendingLimit int
	logger        *zap.Logger
}

// New creates a Service.
func New(snapshots SnapshotLoader, resolver Resolver, logger *zap.Logger) *Service {
	return &Service{
		snapshots:     snapshots,
		resolver:      resolver,
		limit:         ranking.DefaultLimit,
		trendingLimit: DefaultTrendingLimit,
		logger:        logger,
	}
}

// WithLimits overrides the recommendation and trending list lengths.
// Non-positive values keep the defaults.
func (s *Service) WithLimits(recommend, trending int) *Service {
	if recommend > 0 {
		s.limit = recommend
	}
	if trending > 0 {
		s.trendingLimit = trending
	}
	return s
}

// Recommend resolves title and ranks the corpus against it. The whole
// request runs on one snapshot generation.
func (s *Service) Recommend(ctx context.Context, title string) (Recommendation, error) {
	snap := s.snapshots.Load()
	if snap.IsEmpty() {
		return Recommendation{}, fmt.Errorf("%w: %w", domain.ErrEmptyCorpus, domain.NewNotFound(title))
	}

	res, err := s.resolver.ResolveIn(ctx, snap, title)
	if err != nil {
		return Recommendation{}, fmt.Errorf("resolve: %w", err)
	}

	matches := snap.Similar(&res.Item, s.limit)

	s.logger.Debug("Recommendation computed",
		zap.String("title", title),
		zap.Int("id", res.Item.ID),
		zap.Bool("local", res.Local),
		zap.Uint64("generation", snap.Generation()),
		zap.Int("matches", len(matches)),
	)

	return Recommendation{Query: res.Item, Local: res.Local, Matches: matches}, nil
}

// Trending returns the first limit corpus items in stored order (provider
// rank order). limit <= 0 uses the configured default.
func (s *Service) Trending(limit int) []item.Item {
	if limit <= 0 {
		limit = s.trendingLimit
	}
	return s.snapshots.Load().Head(limit)
}
