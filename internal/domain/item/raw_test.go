package item

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNormalize_FullRecord(t *testing.T) {
	score := 8.7
	eps := 24
	members := 150000
	r := Raw{
		MalID: 42,
		Title: "Shingeki no Kyojin",
		Titles: []RawTitle{
			{Type: "Default", Title: "Shingeki no Kyojin"},
			{Type: "English", Title: "Attack on Titan"},
		},
		Images:   &RawImages{JPG: &RawImageSet{ImageURL: "https://cdn.example/42.jpg"}},
		Synopsis: strPtr("Humanity fights titans."),
		Genres:   []RawGenre{{MalID: 1, Name: "Action"}, {MalID: 8, Name: "Drama"}},
		Score:    &score,
		Episodes: &eps,
		Status:   "Finished Airing",
		Type:     "TV",
		Aired:    &RawInterval{From: strPtr("2013-04-07T00:00:00+00:00")},
		Members:  &members,
	}

	it := Normalize(&r)

	if it.ID != 42 {
		t.Errorf("ID: got %d, want 42", it.ID)
	}
	if it.CanonicalTitle != "Shingeki no Kyojin" {
		t.Errorf("CanonicalTitle: got %q", it.CanonicalTitle)
	}
	if it.DisplayTitle != "Attack on Titan" {
		t.Errorf("DisplayTitle: got %q, want English title", it.DisplayTitle)
	}
	if it.ImageURL != "https://cdn.example/42.jpg" {
		t.Errorf("ImageURL: got %q", it.ImageURL)
	}
	if len(it.Genres) != 2 || it.Genres[0] != "Action" || it.Genres[1] != "Drama" {
		t.Errorf("Genres: got %v", it.Genres)
	}
	if it.AiredFrom == nil || !it.AiredFrom.Equal(time.Date(2013, 4, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("AiredFrom: got %v", it.AiredFrom)
	}
	if it.ScoreOrZero() != 8.7 || it.MembersOrZero() != 150000 {
		t.Errorf("score/members: got %v/%v", it.ScoreOrZero(), it.MembersOrZero())
	}
}

func TestNormalize_MissingOptionalFields(t *testing.T) {
	r := Raw{MalID: 7, Title: "Obscure"}

	it := Normalize(&r)

	if it.DisplayTitle != "Obscure" {
		t.Errorf("DisplayTitle should fall back to canonical, got %q", it.DisplayTitle)
	}
	if it.ImageURL != "" || it.Synopsis != "" {
		t.Errorf("expected empty image/synopsis, got %q/%q", it.ImageURL, it.Synopsis)
	}
	if it.Score != nil || it.Episodes != nil || it.Members != nil || it.AiredFrom != nil {
		t.Error("expected absent optional fields")
	}
	if it.Genres == nil || len(it.Genres) != 0 {
		t.Errorf("expected empty non-nil genres, got %#v", it.Genres)
	}
	if it.ScoreOrZero() != 0 || it.MembersOrZero() != 0 {
		t.Error("absent score/members should order as 0")
	}
}

func TestNormalize_ImagesWithoutJPG(t *testing.T) {
	r := Raw{MalID: 1, Title: "x", Images: &RawImages{}}
	if it := Normalize(&r); it.ImageURL != "" {
		t.Errorf("got %q", it.ImageURL)
	}
}

func TestNormalize_BadAiredDate(t *testing.T) {
	r := Raw{MalID: 1, Title: "x", Aired: &RawInterval{From: strPtr("someday")}}
	if it := Normalize(&r); it.AiredFrom != nil {
		t.Errorf("unparsable date should be absent, got %v", it.AiredFrom)
	}
}

func TestNormalize_DisplayTitleNeverEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  Raw
		want string
	}{
		{"english blank", Raw{MalID: 1, Title: "Canon", Titles: []RawTitle{{Type: "English", Title: "  "}}}, "Canon"},
		{"only synonyms", Raw{MalID: 2, Titles: []RawTitle{{Type: "Japanese", Title: "日本"}}}, "日本"},
		{"nothing", Raw{MalID: 3}, "#3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(&tc.raw).DisplayTitle; got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize_GenresDeduplicated(t *testing.T) {
	r := Raw{MalID: 1, Title: "x", Genres: []RawGenre{{Name: "Action"}, {Name: ""}, {Name: "Action"}, {Name: "Comedy"}}}
	it := Normalize(&r)
	if len(it.Genres) != 2 || it.Genres[0] != "Action" || it.Genres[1] != "Comedy" {
		t.Errorf("got %v", it.Genres)
	}
}

func TestFeatureText(t *testing.T) {
	it := Item{Genres: []string{"Action", "Sci-Fi"}, Synopsis: "Space war."}
	if got := FeatureText(&it); got != "Action Sci-Fi Space war." {
		t.Errorf("got %q", got)
	}

	empty := Item{}
	if got := FeatureText(&empty); got != " " {
		t.Errorf("got %q", got)
	}
}

func TestHasGenre(t *testing.T) {
	it := Item{Genres: []string{"Action", "Comedy"}}
	if !it.HasGenre("Comedy") {
		t.Error("expected Comedy")
	}
	if it.HasGenre("comedy") {
		t.Error("genre match is case sensitive")
	}
}
