package resolve

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
)

// SnapshotLoader returns the current corpus snapshot.
type SnapshotLoader interface {
	Load() *corpus.Snapshot
}

// Provider looks up the single best catalog match for a title.
// A nil record with a nil error means the provider has no match.
type Provider interface {
	SearchOne(ctx context.Context, title string) (*item.Raw, error)
}

// Cache stores provider lookups by title.
type Cache interface {
	Get(ctx context.Context, title string) (*item.Raw, bool)
	Put(ctx context.Context, title string, raw *item.Raw)
}
