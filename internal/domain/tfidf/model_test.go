package tfidf

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestTokenize_LowercaseAndStopWords(t *testing.T) {
	tok := NewTokenizer(englishStopWords)

	got := tok.Tokenize("The Titans attack the WALLS, and I run! x 42")
	want := []string{"titans", "attack", "walls", "run", "42"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	tok := NewTokenizer(englishStopWords)
	if got := tok.Tokenize("  the a of "); len(got) != 0 {
		t.Errorf("expected no terms, got %v", got)
	}
}

func TestFit_EmptyCorpus(t *testing.T) {
	m := Fit(nil)
	if m.Len() != 0 || m.Vocabulary().Len() != 0 {
		t.Fatalf("expected empty model, got %d rows / %d terms", m.Len(), m.Vocabulary().Len())
	}
	if v := m.Encode("war story"); !v.IsZero() {
		t.Errorf("encode on empty model should be zero, got %+v", v)
	}
}

func TestFit_VocabularyIsSorted(t *testing.T) {
	m := Fit([]string{"zeta alpha", "mid alpha"})
	terms := m.Vocabulary().Terms()
	want := []string{"alpha", "mid", "zeta"}
	if len(terms) != len(want) {
		t.Fatalf("got %v", terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("column %d: got %q, want %q", i, terms[i], want[i])
		}
		if col, ok := m.Vocabulary().Lookup(want[i]); !ok || col != i {
			t.Errorf("lookup %q: got %d/%v", want[i], col, ok)
		}
	}
}

func TestFit_SmoothIDF(t *testing.T) {
	m := Fit([]string{"alpha beta", "alpha gamma", "alpha"})
	if got, want := m.IDF("alpha"), 1.0; math.Abs(got-want) > eps {
		t.Errorf("idf(alpha): got %v, want %v", got, want)
	}
	if got, want := m.IDF("beta"), math.Log(4.0/2.0)+1; math.Abs(got-want) > eps {
		t.Errorf("idf(beta): got %v, want %v", got, want)
	}
	if m.IDF("unknown") != 0 {
		t.Error("unknown term should have zero idf")
	}
}

func TestFit_RowsAreUnitLength(t *testing.T) {
	m := Fit([]string{"Action war story", "Comedy funny jokes jokes", "the of and"})
	for i := 0; i < 2; i++ {
		if n := m.Row(i).Norm(); math.Abs(n-1) > eps {
			t.Errorf("row %d norm: got %v", i, n)
		}
	}
	if !m.Row(2).IsZero() {
		t.Errorf("stop-word-only document should be the zero vector, got %+v", m.Row(2))
	}
}

func TestEncode_UnseenTermsDropped(t *testing.T) {
	m := Fit([]string{"war story", "funny jokes"})
	v := m.Encode("war dragons spaceships")
	if v.Len() != 1 {
		t.Fatalf("expected one known term, got %+v", v)
	}
	col, _ := m.Vocabulary().Lookup("war")
	if v.Indices[0] != col || math.Abs(v.Weights[0]-1) > eps {
		t.Errorf("got %+v", v)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	m := Fit([]string{"Action war story", "Action war story", "Comedy funny jokes"})
	a := m.Encode("war story with funny jokes")
	b := m.Encode("war story with funny jokes")
	if !a.Equal(b) {
		t.Errorf("encoding differs: %+v vs %+v", a, b)
	}
}

func TestEncode_MatchesFittedRow(t *testing.T) {
	texts := []string{"Action Drama humanity fights titans", "Comedy school club"}
	m := Fit(texts)
	for i, text := range texts {
		if !m.Encode(text).Equal(m.Row(i)) {
			t.Errorf("row %d differs from encoding of its own text", i)
		}
	}
}

func TestEncode_Concurrent(t *testing.T) {
	m := Fit([]string{"alpha beta", "beta gamma", "gamma delta"})
	want := m.Encode("beta gamma")

	done := make(chan Vector, 16)
	for i := 0; i < cap(done); i++ {
		go func() { done <- m.Encode("beta gamma") }()
	}
	for i := 0; i < cap(done); i++ {
		if got := <-done; !got.Equal(want) {
			t.Fatalf("concurrent encode differs: %+v", got)
		}
	}
}

func TestFit_RefitIsStable(t *testing.T) {
	texts := []string{"Action war story", "Romance school love", "Action space war"}
	a := Fit(texts)
	b := Fit(texts)
	if a.Vocabulary().Len() != b.Vocabulary().Len() {
		t.Fatalf("vocabulary size changed: %d vs %d", a.Vocabulary().Len(), b.Vocabulary().Len())
	}
	for i := range texts {
		if !a.Row(i).Equal(b.Row(i)) {
			t.Errorf("row %d changed on refit", i)
		}
	}
}

func TestFit_DoesNotMutatePreviousModel(t *testing.T) {
	a := Fit([]string{"alpha beta"})
	_ = Fit([]string{"gamma delta epsilon"})
	if a.Vocabulary().Len() != 2 {
		t.Errorf("previous model changed: %v", a.Vocabulary().Terms())
	}
}

func TestFit_StopWordOptions(t *testing.T) {
	m := Fit([]string{"the anime story"}, WithExtraStopWords([]string{"Anime"}))
	if _, ok := m.Vocabulary().Lookup("anime"); ok {
		t.Error("extra stop word should be dropped")
	}
	if _, ok := m.Vocabulary().Lookup("the"); ok {
		t.Error("built-in stop words should still apply")
	}

	m = Fit([]string{"the anime story"}, WithStopWords(nil))
	if _, ok := m.Vocabulary().Lookup("the"); !ok {
		t.Error("replacing the stop word list should keep \"the\"")
	}
}

func TestVector_DotSymmetric(t *testing.T) {
	m := Fit([]string{"Action war story", "Action war drama story", "Comedy funny war"})
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			if m.Row(i).Dot(m.Row(j)) != m.Row(j).Dot(m.Row(i)) {
				t.Errorf("dot(%d,%d) is not symmetric", i, j)
			}
		}
		if d := m.Row(i).Dot(m.Row(i)); math.Abs(d-1) > eps {
			t.Errorf("self similarity of row %d: got %v", i, d)
		}
	}
}

func TestVector_Weight(t *testing.T) {
	v := Vector{Indices: []int{1, 4, 9}, Weights: []float64{0.1, 0.4, 0.9}}
	if v.Weight(4) != 0.4 || v.Weight(9) != 0.9 || v.Weight(5) != 0 {
		t.Errorf("unexpected weights: %v %v %v", v.Weight(4), v.Weight(9), v.Weight(5))
	}
}
