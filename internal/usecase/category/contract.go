package category

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/catalog"
	"github.com/kailas-cloud/animatch/internal/domain/corpus"
)

// SnapshotLoader returns the current corpus snapshot.
type SnapshotLoader interface {
	Load() *corpus.Snapshot
}

// LiveProvider fetches a filtered catalog page from the provider.
type LiveProvider interface {
	ListByParams(ctx context.Context, params catalog.Params, page, limit int) (catalog.Page, error)
}
