package recommend

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/usecase/resolve"
)

// SnapshotLoader returns the current corpus snapshot.
type SnapshotLoader interface {
	Load() *corpus.Snapshot
}

// Resolver resolves a title against a given snapshot.
type Resolver interface {
	ResolveIn(ctx context.Context, snap *corpus.Snapshot, title string) (resolve.Result, error)
}
