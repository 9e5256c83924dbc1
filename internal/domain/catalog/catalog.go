// Package catalog describes what the remote catalog provider returns.
package catalog

import "github.com/kailas-cloud/animatch/internal/domain/item"

// Params are provider-specific filter parameters, e.g. {"genres": "12", "rating": "rx"}.
type Params map[string]string

// Page is one page of provider records.
type Page struct {
	Records         []item.Raw
	CurrentPage     int // as reported by the provider, 0 when absent
	LastVisiblePage int
	HasNextPage     bool
}
