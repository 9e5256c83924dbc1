package animatch

import (
	"time"

	domcorpus "github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	categoryuc "github.com/kailas-cloud/animatch/internal/usecase/category"
)

// Anime is one catalog entry. Nil pointers mean the provider had no value.
type Anime struct {
	ID             int
	Title          string // display title, English when available
	CanonicalTitle string
	ImageURL       string
	Synopsis       string
	Genres         []string
	Score          *float64
	Episodes       *int
	Members        *int
	Status         string
	Type           string
	AiredFrom      *time.Time
}

// Match is a recommended anime and its cosine similarity to the query.
type Match struct {
	Anime      Anime
	Similarity float64
}

// Recommendation is the resolved query and its most similar corpus entries.
type Recommendation struct {
	Query   Anime
	Local   bool // query was found in the corpus rather than fetched
	Matches []Match
}

// GenrePage is one page of a genre listing.
type GenrePage struct {
	Title       string
	Description string
	Anime       []Anime
	Page        int
	TotalPages  int
	Live        bool // served by the provider instead of the corpus
}

func animeFromItem(it *item.Item) Anime {
	return Anime{
		ID:             it.ID,
		Title:          it.DisplayTitle,
		CanonicalTitle: it.CanonicalTitle,
		ImageURL:       it.ImageURL,
		Synopsis:       it.Synopsis,
		Genres:         it.Genres,
		Score:          it.Score,
		Episodes:       it.Episodes,
		Members:        it.Members,
		Status:         it.Status,
		Type:           it.Type,
		AiredFrom:      it.AiredFrom,
	}
}

func animeFromItems(items []item.Item) []Anime {
	out := make([]Anime, len(items))
	for i := range items {
		out[i] = animeFromItem(&items[i])
	}
	return out
}

func matchesFromDomain(ms []domcorpus.Match) []Match {
	out := make([]Match, len(ms))
	for i := range ms {
		out[i] = Match{Anime: animeFromItem(&ms[i].Item), Similarity: ms[i].Similarity}
	}
	return out
}

func genrePageFromDomain(p *categoryuc.Page) *GenrePage {
	return &GenrePage{
		Title:       p.Header.Title,
		Description: p.Header.Description,
		Anime:       animeFromItems(p.Items),
		Page:        p.CurrentPage,
		TotalPages:  p.TotalPages,
		Live:        p.Live,
	}
}
