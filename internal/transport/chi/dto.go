package chi

import (
	"time"

	"github.com/kailas-cloud/animatch/internal/domain/corpus"
	"github.com/kailas-cloud/animatch/internal/domain/item"
	"github.com/kailas-cloud/animatch/internal/usecase/category"
)

// Item is the JSON shape of a catalog entry. Absent values encode as null.
type Item struct {
	MalID        int        `json:"mal_id"`
	EnglishTitle string     `json:"english_title"`
	ImageURL     *string    `json:"image_url"`
	Synopsis     *string    `json:"synopsis"`
	Score        *float64   `json:"score"`
	Episodes     *int       `json:"episodes"`
	Status       *string    `json:"status"`
	Type         *string    `json:"type"`
	Genres       []string   `json:"genres"`
	AiredFrom    *time.Time `json:"aired_from"`
}

// Recommendation is a ranked item with its cosine similarity to the query.
type Recommendation struct {
	Item
	Similarity float64 `json:"similarity"`
}

// RecommendResponse is returned by GET /recommend.
type RecommendResponse struct {
	SearchedAnime   Item             `json:"searched_anime"`
	Recommendations []Recommendation `json:"recommendations"`
}

// CategoryHeader describes a category page in place of a searched item.
type CategoryHeader struct {
	EnglishTitle string   `json:"english_title"`
	ImageURL     string   `json:"image_url"`
	Synopsis     string   `json:"synopsis"`
	Score        *float64 `json:"score"`
}

// CategoryResponse is returned by GET /by_genre.
type CategoryResponse struct {
	SearchedAnime   CategoryHeader `json:"searched_anime"`
	Recommendations []Item         `json:"recommendations"`
	CurrentPage     int            `json:"current_page"`
	TotalPages      int            `json:"total_pages"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	Items      int               `json:"items"`
	Generation uint64            `json:"generation"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const (
	codeBadRequest          = "bad_request"
	codeNotFound            = "not_found"
	codeProviderUnavailable = "provider_unavailable"
	codeRateLimited         = "rate_limited"
	codeInternalError       = "internal_error"
)

func itemToDTO(it *item.Item) Item {
	genres := it.Genres
	if genres == nil {
		genres = []string{}
	}
	return Item{
		MalID:        it.ID,
		EnglishTitle: it.DisplayTitle,
		ImageURL:     optString(it.ImageURL),
		Synopsis:     optString(it.Synopsis),
		Score:        it.Score,
		Episodes:     it.Episodes,
		Status:       optString(it.Status),
		Type:         optString(it.Type),
		Genres:       genres,
		AiredFrom:    it.AiredFrom,
	}
}

func itemsToDTO(items []item.Item) []Item {
	out := make([]Item, len(items))
	for i := range items {
		out[i] = itemToDTO(&items[i])
	}
	return out
}

func matchesToDTO(matches []corpus.Match) []Recommendation {
	out := make([]Recommendation, len(matches))
	for i := range matches {
		out[i] = Recommendation{
			Item:       itemToDTO(&matches[i].Item),
			Similarity: matches[i].Similarity,
		}
	}
	return out
}

func categoryToDTO(p *category.Page) CategoryResponse {
	return CategoryResponse{
		SearchedAnime: CategoryHeader{
			EnglishTitle: p.Header.Title,
			ImageURL:     p.Header.ImageURL,
			Synopsis:     p.Header.Description,
		},
		Recommendations: itemsToDTO(p.Items),
		CurrentPage:     p.CurrentPage,
		TotalPages:      p.TotalPages,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
