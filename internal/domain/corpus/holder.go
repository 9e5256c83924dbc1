package corpus

import "sync/atomic"

// Holder publishes the current snapshot. Readers Load once per request and
// keep using that generation; a rebuild replaces the whole snapshot at once.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder creates a holder initialized with an empty snapshot.
func NewHolder() *Holder {
	h := &Holder{}
	h.current.Store(Empty())
	return h
}

// Load returns the current snapshot. Never nil.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Swap publishes next and returns the previous snapshot.
func (h *Holder) Swap(next *Snapshot) *Snapshot {
	return h.current.Swap(next)
}
