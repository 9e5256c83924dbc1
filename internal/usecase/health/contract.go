package health

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/corpus"
)

// SnapshotLoader returns the current corpus snapshot.
type SnapshotLoader interface {
	Load() *corpus.Snapshot
}

// Pinger checks availability of a dependency (catalog provider, cache store).
type Pinger interface {
	Ping(ctx context.Context) error
}
