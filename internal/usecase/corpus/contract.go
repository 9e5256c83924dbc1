package corpus

import (
	"context"

	"github.com/kailas-cloud/animatch/internal/domain/catalog"
	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
)

// Provider fetches pages of the top-ranked catalog.
type Provider interface {
	TopAnime(ctx context.Context, page int) (catalog.Page, error)
}

// Publisher publishes a new snapshot and returns the previous one.
type Publisher interface {
	Load() *domcorpus.Snapshot
	Swap(next *domcorpus.Snapshot) *domcorpus.Snapshot
}
