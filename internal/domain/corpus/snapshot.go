// Package corpus holds the immutable, versioned corpus snapshot: the items,
// their fitted TF-IDF model and the row -> id mapping, published together.
package corpus

import (
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/domain/ranking"
	"github.com/kailas-cloud/animatch/internal/domain/tfidf"
)

// Snapshot is one generation of the corpus. It is never mutated after
// NewSnapshot returns, so it can be shared freely between goroutines.
type Snapshot struct {
	generation uint64
	builtAt    time.Time
	items      []item.Item
	ids        []int
	byID       map[int]int
	model      *tfidf.Model
}

// Match is a ranked corpus item.
type Match struct {
	Item       item.Item
	Similarity float64
}

// NewSnapshot builds a snapshot from items in the given order. Items with an
// id already seen are dropped, first occurrence wins. The model is fitted on
// the feature text of the surviving items.
func NewSnapshot(generation uint64, items []item.Item, opts ...tfidf.Option) *Snapshot {
	s := &Snapshot{
		generation: generation,
		builtAt:    time.Now(),
		items:      make([]item.Item, 0, len(items)),
		ids:        make([]int, 0, len(items)),
		byID:       make(map[int]int, len(items)),
	}
	for i := range items {
		id := items[i].ID
		if _, dup := s.byID[id]; dup {
			continue
		}
		s.byID[id] = len(s.items)
		s.items = append(s.items, items[i])
		s.ids = append(s.ids, id)
	}

	texts := make([]string, len(s.items))
	for i := range s.items {
		texts[i] = item.FeatureText(&s.items[i])
	}
	s.model = tfidf.Fit(texts, opts...)
	return s
}

// Empty returns a snapshot with no items.
func Empty() *Snapshot {
	return NewSnapshot(0, nil)
}

// Generation returns the build generation, 0 for the initial empty snapshot.
func (s *Snapshot) Generation() uint64 { return s.generation }

// BuiltAt returns when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of items.
func (s *Snapshot) Len() int { return len(s.items) }

// IsEmpty reports whether the snapshot has no items.
func (s *Snapshot) IsEmpty() bool { return len(s.items) == 0 }

// Item returns the item at row i.
func (s *Snapshot) Item(i int) item.Item { return s.items[i] }

// IDAt returns the id of the item at row i.
func (s *Snapshot) IDAt(i int) int { return s.ids[i] }

// IndexOf returns the row of the item with the given id.
func (s *Snapshot) IndexOf(id int) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// Model returns the fitted vectorizer.
func (s *Snapshot) Model() *tfidf.Model { return s.model }

// Head returns up to n items in stored order.
func (s *Snapshot) Head(n int) []item.Item {
	n = min(max(n, 0), len(s.items))
	out := make([]item.Item, n)
	copy(out, s.items[:n])
	return out
}

// Filter returns the items for which keep returns true, in stored order.
func (s *Snapshot) Filter(keep func(*item.Item) bool) []item.Item {
	var out []item.Item
	for i := range s.items {
		if keep(&s.items[i]) {
			out = append(out, s.items[i])
		}
	}
	return out
}

// FindByTitle returns the first item, in stored order, whose canonical or
// display title equals title ignoring case.
func (s *Snapshot) FindByTitle(title string) (item.Item, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return item.Item{}, false
	}
	for i := range s.items {
		it := &s.items[i]
		if strings.ToLower(it.CanonicalTitle) == want || strings.ToLower(it.DisplayTitle) == want {
			return *it, true
		}
	}
	return item.Item{}, false
}

// Genres returns the sorted set of genre tags present in the corpus.
func (s *Snapshot) Genres() []string {
	seen := make(map[string]struct{})
	for i := range s.items {
		for _, g := range s.items[i].Genres {
			seen[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Similar ranks every corpus item against the feature text of query and
// returns the n best, never including an item whose id equals query.ID.
func (s *Snapshot) Similar(query *item.Item, n int) []Match {
	if s.IsEmpty() {
		return nil
	}
	vec := s.model.Encode(item.FeatureText(query))
	ranked := ranking.TopN(vec, s.model.Rows(), s.ids, query.ID, n)

	out := make([]Match, len(ranked))
	for i, r := range ranked {
		out[i] = Match{Item: s.items[r.Index], Similarity: r.Similarity}
	}
	return out
}
