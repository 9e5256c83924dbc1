package chi

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/usecase/category"
	"github.com/kailas-cloud/animatch/internal/usecase/health"
	"github.com/kailas-cloud/animatch/internal/usecase/recommend"
)

// Recommender answers similarity and trending queries.
type Recommender interface {
	Recommend(ctx context.Context, title string) (recommend.Recommendation, error)
	Trending(limit int) []item.Item
}

// Categories lists items by category.
type Categories interface {
	Query(ctx context.Context, category string, page int) (category.Page, error)
	ListGenres() []string
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}
