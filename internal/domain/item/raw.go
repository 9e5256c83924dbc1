package item

import (
	"strconv"
	"strings"
	"time"
)

// englishTitleType is the titles[].type value holding the localized title.
const englishTitleType = "English"

// Raw is a catalog record as returned by the provider.
type Raw struct {
	MalID    int          `json:"mal_id"`
	Title    string       `json:"title"`
	Titles   []RawTitle   `json:"titles"`
	Images   *RawImages   `json:"images"`
	Synopsis *string      `json:"synopsis"`
	Genres   []RawGenre   `json:"genres"`
	Score    *float64     `json:"score"`
	Episodes *int         `json:"episodes"`
	Status   string       `json:"status"`
	Type     string       `json:"type"`
	Aired    *RawInterval `json:"aired"`
	Members  *int         `json:"members"`
}

// RawTitle is one localized title entry.
type RawTitle struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// RawImages holds image variants keyed by format.
type RawImages struct {
	JPG *RawImageSet `json:"jpg"`
}

// RawImageSet holds the URLs of one image format.
type RawImageSet struct {
	ImageURL string `json:"image_url"`
}

// RawGenre is a genre tag reference.
type RawGenre struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// RawInterval is an airing date range.
type RawInterval struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// Normalize converts a provider record into an Item. It is the only place
// field derivation rules live: bulk ingestion, single lookups and live
// category pages all go through it. Missing optional fields become absent.
func Normalize(r *Raw) Item {
	it := Item{
		ID:             r.MalID,
		CanonicalTitle: strings.TrimSpace(r.Title),
		Score:          r.Score,
		Episodes:       r.Episodes,
		Status:         r.Status,
		Type:           r.Type,
		Members:        r.Members,
	}

	it.DisplayTitle = displayTitle(r, it.CanonicalTitle)

	if r.Images != nil && r.Images.JPG != nil {
		it.ImageURL = r.Images.JPG.ImageURL
	}
	if r.Synopsis != nil {
		it.Synopsis = *r.Synopsis
	}
	it.Genres = genreNames(r.Genres)
	if r.Aired != nil && r.Aired.From != nil {
		it.AiredFrom = parseDate(*r.Aired.From)
	}

	return it
}

// NormalizeAll normalizes records in order.
func NormalizeAll(rs []Raw) []Item {
	out := make([]Item, len(rs))
	for i := range rs {
		out[i] = Normalize(&rs[i])
	}
	return out
}

func displayTitle(r *Raw, canonical string) string {
	for _, t := range r.Titles {
		if t.Type == englishTitleType && strings.TrimSpace(t.Title) != "" {
			return strings.TrimSpace(t.Title)
		}
	}
	if canonical != "" {
		return canonical
	}
	for _, t := range r.Titles {
		if s := strings.TrimSpace(t.Title); s != "" {
			return s
		}
	}
	return "#" + strconv.Itoa(r.MalID)
}

// genreNames flattens genre references into an ordered set of names.
func genreNames(gs []RawGenre) []string {
	names := make([]string, 0, len(gs))
	seen := make(map[string]struct{}, len(gs))
	for _, g := range gs {
		if g.Name == "" {
			continue
		}
		if _, dup := seen[g.Name]; dup {
			continue
		}
		seen[g.Name] = struct{}{}
		names = append(names, g.Name)
	}
	return names
}

func parseDate(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
