// Package item defines the catalog record served by the recommender and the
// single normalization path from provider records into it.
package item

import "time"

// Item is one catalog entry.
type Item struct {
	ID             int
	CanonicalTitle string
	DisplayTitle   string // never empty, falls back to CanonicalTitle
	ImageURL       string
	Synopsis       string
	Genres         []string
	Score          *float64
	Episodes       *int
	Status         string
	Type           string
	AiredFrom      *time.Time
	Members        *int
}

// HasGenre reports whether the item is tagged with genre (exact match).
func (it *Item) HasGenre(genre string) bool {
	for _, g := range it.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// ScoreOrZero returns the score, treating an absent value as 0.
func (it *Item) ScoreOrZero() float64 {
	if it.Score == nil {
		return 0
	}
	return *it.Score
}

// MembersOrZero returns the member count, treating an absent value as 0.
func (it *Item) MembersOrZero() int {
	if it.Members == nil {
		return 0
	}
	return *it.Members
}
