// Package corpus builds and publishes corpus snapshots from the provider's
// top-ranked list.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/domain"
	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/domain/tfidf"
	"github.com/kailas-cloud/animatch/internal/metrics"
)

// DefaultMaxPages is the number of top-list pages fetched per build.
const DefaultMaxPages = 40

// Service builds corpus snapshots.
type Service struct {
	provider  Provider
	publisher Publisher
	maxPages  int
	tfidfOpts []tfidf.Option
	logger    *zap.Logger
}

// New creates a Service.
func New(provider Provider, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		provider:  provider,
		publisher: publisher,
		maxPages:  DefaultMaxPages,
		logger:    logger,
	}
}

// WithMaxPages overrides the number of pages fetched.
func (s *Service) WithMaxPages(n int) *Service {
	if n > 0 {
		s.maxPages = n
	}
	return s
}

// WithVectorizerOptions sets the options passed to tfidf.Fit.
func (s *Service) WithVectorizerOptions(opts ...tfidf.Option) *Service {
	s.tfidfOpts = opts
	return s
}

// Build fetches the corpus, fits the vectorizer and publishes the result as
// the next generation. An empty result is still published and reported as
// domain.ErrEmptyCorpus.
//
// The first build keeps the pages fetched before a provider error. Later
// builds never replace a published corpus with an incomplete one: on a fetch
// error, or when the fetch returns fewer items than the current corpus, the
// current snapshot is kept and returned with domain.ErrProviderUnavailable.
func (s *Service) Build(ctx context.Context) (*domcorpus.Snapshot, error) {
	start := time.Now()

	records, fetchErr := s.fetch(ctx)
	items := item.NormalizeAll(records)

	current := s.publisher.Load()
	if current.Generation() > 0 && (fetchErr != nil || len(items) < current.Len()) {
		s.logger.Warn("Keeping current corpus, refresh incomplete",
			zap.Uint64("generation", current.Generation()),
			zap.Int("current_items", current.Len()),
			zap.Int("fetched_items", len(items)),
			zap.Error(fetchErr),
		)
		if fetchErr != nil {
			return current, fmt.Errorf("refresh generation %d: %w", current.Generation(), fetchErr)
		}
		return current, fmt.Errorf("refresh generation %d: fetched %d of %d items: %w",
			current.Generation(), len(items), current.Len(), domain.ErrProviderUnavailable)
	}

	generation := current.Generation() + 1
	snap := domcorpus.NewSnapshot(generation, items, s.tfidfOpts...)
	s.publisher.Swap(snap)

	elapsed := time.Since(start)
	metrics.CorpusBuildDuration.Observe(elapsed.Seconds())
	metrics.CorpusItems.Set(float64(snap.Len()))
	metrics.CorpusVocabularySize.Set(float64(snap.Model().Vocabulary().Len()))
	metrics.CorpusGeneration.Set(float64(generation))

	if snap.IsEmpty() {
		s.logger.Warn("Corpus is empty, similarity queries will return no results",
			zap.Uint64("generation", generation))
		return snap, fmt.Errorf("build generation %d: %w", generation, domain.ErrEmptyCorpus)
	}

	s.logger.Info("Corpus built",
		zap.Uint64("generation", generation),
		zap.Int("records", len(records)),
		zap.Int("items", snap.Len()),
		zap.Int("terms", snap.Model().Vocabulary().Len()),
		zap.Duration("elapsed", elapsed),
		zap.Bool("partial", fetchErr != nil),
	)
	return snap, nil
}

// fetch reads pages 1..maxPages, stopping at the first empty page, the last
// page or the first error. Records fetched before an error are returned with
// it.
func (s *Service) fetch(ctx context.Context) ([]item.Raw, error) {
	var records []item.Raw
	for page := 1; page <= s.maxPages; page++ {
		p, err := s.provider.TopAnime(ctx, page)
		if err != nil {
			s.logger.Error("Failed to fetch top page",
				zap.Int("page", page),
				zap.Int("records", len(records)),
				zap.Error(err),
			)
			if !errors.Is(err, domain.ErrProviderUnavailable) {
				err = fmt.Errorf("%w: %w", err, domain.ErrProviderUnavailable)
			}
			return records, fmt.Errorf("fetch top page %d: %w", page, err)
		}
		if len(p.Records) == 0 {
			break
		}
		records = append(records, p.Records...)
		s.logger.Debug("Fetched top page", zap.Int("page", page), zap.Int("records", len(p.Records)))
		if !p.HasNextPage {
			break
		}
	}
	return records, nil
}
