package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/animatch/internal/domain"
	"github.com/kailas-cloud/animatch/internal/domain/catalog"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 20

// DefaultPlaceholderImage is shown as the header image of a category page.
const DefaultPlaceholderImage = "https://placehold.co/400x600/1a202c/718096?text=Genre"

// DefaultLiveOnly returns the categories always fetched from the provider.
func DefaultLiveOnly() map[string]catalog.Params {
	return map[string]catalog.Params{
		"Hentai":    {"genres": "12", "rating": "rx"},
		"Adventure": {"genres": "2"},
	}
}

// Config configures the category engine.
type Config struct {
	PageSize         int
	LiveOnly         map[string]catalog.Params // category -> provider filter
	Special          []string                  // always listed by ListGenres
	PlaceholderImage string
}

// Header describes a category page.
type Header struct {
	Title       string
	ImageURL    string
	Description string
}

// Page is one page of a category listing.
type Page struct {
	Header      Header
	Items       []item.Item
	CurrentPage int
	TotalPages  int
	Live        bool // fetched from the provider
}

// Service lists items by category.
type Service struct {
	snapshots SnapshotLoader
	provider  LiveProvider
	cfg       Config
	logger    *zap.Logger
}

// New creates a Service. Zero config fields take defaults; a nil LiveOnly
// map uses DefaultLiveOnly and nil Special lists the live-only names.
func New(snapshots SnapshotLoader, provider LiveProvider, cfg Config, logger *zap.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.LiveOnly == nil {
		cfg.LiveOnly = DefaultLiveOnly()
	}
	if cfg.Special == nil {
		for name := range cfg.LiveOnly {
			cfg.Special = append(cfg.Special, name)
		}
	}
	if cfg.PlaceholderImage == "" {
		cfg.PlaceholderImage = DefaultPlaceholderImage
	}
	return &Service{snapshots: snapshots, provider: provider, cfg: cfg, logger: logger}
}

// IsLiveOnly reports whether category is always served by the provider.
func (s *Service) IsLiveOnly(category string) bool {
	_, ok := s.cfg.LiveOnly[category]
	return ok
}

// Query returns one page of category. Pages start at 1; lower values are
// treated as 1.
//
// Live-only categories are forwarded to the provider, which decides the
// current page and the totals; a provider failure is domain.ErrProviderUnavailable. Local
// categories with no matching item return domain.ErrItemNotFound.
func (s *Service) Query(ctx context.Context, category string, page int) (Page, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return Page{}, fmt.Errorf("category is required: %w", domain.ErrInvalidQuery)
	}
	page = max(page, 1)

	if params, ok := s.cfg.LiveOnly[category]; ok {
		return s.queryLive(ctx, category, params, page)
	}
	return s.queryLocal(category, page)
}

func (s *Service) queryLive(ctx context.Context, category string, params catalog.Params, page int) (Page, error) {
	s.logger.Debug("Fetching live category", zap.String("category", category), zap.Int("page", page))

	p, err := s.provider.ListByParams(ctx, params, page, s.cfg.PageSize)
	if err != nil {
		s.logger.Warn("Live category fetch failed", zap.String("category", category), zap.Error(err))
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return Page{}, fmt.Errorf("category %q: %w", category, err)
		}
		return Page{}, fmt.Errorf("category %q: %w: %w", category, err, domain.ErrProviderUnavailable)
	}

	total := p.LastVisiblePage
	if total <= 0 {
		total = 1
	}
	current := p.CurrentPage
	if current <= 0 {
		current = page
	}
	return Page{
		Header: Header{
			Title:       "Top " + category + " Anime",
			ImageURL:    s.cfg.PlaceholderImage,
			Description: "A curated list of anime in the " + category + " genre.",
		},
		Items:       item.NormalizeAll(p.Records),
		CurrentPage: current,
		TotalPages:  total,
		Live:        true,
	}, nil
}

func (s *Service) queryLocal(category string, page int) (Page, error) {
	matches := s.snapshots.Load().Filter(func(it *item.Item) bool { return it.HasGenre(category) })
	if len(matches) == 0 {
		return Page{}, domain.NewNotFound(category)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := &matches[i], &matches[j]
		if a.ScoreOrZero() != b.ScoreOrZero() {
			return a.ScoreOrZero() > b.ScoreOrZero()
		}
		return a.MembersOrZero() > b.MembersOrZero()
	})

	size := s.cfg.PageSize
	totalPages := (len(matches) + size - 1) / size
	start := min((page-1)*size, len(matches))
	end := min(start+size, len(matches))

	return Page{
		Header: Header{
			Title:    "Top " + category + " Anime",
			ImageURL: s.cfg.PlaceholderImage,
			Description: "A curated list of the top-rated anime in the " + category +
				" genre, sorted by score and popularity.",
		},
		Items:       matches[start:end],
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// ListGenres returns the sorted genres of the corpus together with the
// special categories, which are listed even when no item carries them.
func (s *Service) ListGenres() []string {
	genres := s.snapshots.Load().Genres()
	seen := make(map[string]struct{}, len(genres)+len(s.cfg.Special))
	for _, g := range genres {
		seen[g] = struct{}{}
	}
	for _, g := range s.cfg.Special {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			genres = append(genres, g)
		}
	}
	sort.Strings(genres)
	return genres
}
