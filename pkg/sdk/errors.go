package animatch

import "github.com/kailas-cloud/animatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyCorpus         = domain.ErrEmptyCorpus
	ErrNotFound            = domain.ErrItemNotFound
	ErrProviderUnavailable = domain.ErrProviderUnavailable
	ErrInvalidQuery        = domain.ErrInvalidQuery
)
