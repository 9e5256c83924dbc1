// Package tfidf builds a fixed vocabulary over a corpus and turns text into
// L2-normalized TF-IDF sparse vectors.
//
// A Model is produced once by Fit and never changes afterwards; refitting
// returns a new Model. Encode only reads the model and may be called from
// any number of goroutines.
package tfidf

import (
	"math"
	"sort"
)

// Vocabulary maps terms to dense column indices assigned in lexicographic order.
type Vocabulary struct {
	index map[string]int
	terms []string
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Lookup returns the column of term.
func (v *Vocabulary) Lookup(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Terms returns a copy of all terms in column order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Option configures Fit.
type Option func(*options)

type options struct {
	stopWords []string
	extra     []string
}

// WithStopWords replaces the built-in English stop word list.
func WithStopWords(words []string) Option {
	return func(o *options) { o.stopWords = words }
}

// WithExtraStopWords adds words to the stop word list.
func WithExtraStopWords(words []string) Option {
	return func(o *options) { o.extra = append(o.extra, words...) }
}

// Model is a fitted vectorizer together with the vectors of the documents it
// was fitted on.
type Model struct {
	tokenizer *Tokenizer
	vocab     *Vocabulary
	idf       []float64
	rows      []Vector
}

// Fit tokenizes texts, builds the vocabulary and computes one row per text.
//
// idf(t) = ln((1+N)/(1+df(t))) + 1, weight = raw term count * idf, and every
// row is scaled to unit length. An empty input yields an empty model.
func Fit(texts []string, opts ...Option) *Model {
	o := options{stopWords: englishStopWords}
	for _, fn := range opts {
		fn(&o)
	}
	stop := make([]string, 0, len(o.stopWords)+len(o.extra))
	stop = append(stop, o.stopWords...)
	stop = append(stop, o.extra...)

	m := &Model{
		tokenizer: NewTokenizer(stop),
		vocab:     &Vocabulary{index: map[string]int{}},
	}
	if len(texts) == 0 {
		return m
	}

	docs := make([][]string, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		docs[i] = m.tokenizer.Tokenize(text)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, term := range docs[i] {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m.vocab.terms = terms
	m.idf = make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		m.vocab.index[term] = i
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	m.rows = make([]Vector, len(docs))
	for i, doc := range docs {
		m.rows[i] = m.vectorize(doc)
	}
	return m
}

// Encode vectorizes text with the fitted vocabulary. Terms unseen at fit
// time are dropped; text with no known terms yields the zero vector.
func (m *Model) Encode(text string) Vector {
	return m.vectorize(m.tokenizer.Tokenize(text))
}

func (m *Model) vectorize(terms []string) Vector {
	counts := make(map[int]float64, len(terms))
	for _, term := range terms {
		if col, ok := m.vocab.index[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(counts)),
		Weights: make([]float64, 0, len(counts)),
	}
	for col := range counts {
		v.Indices = append(v.Indices, col)
	}
	sort.Ints(v.Indices)
	for _, col := range v.Indices {
		v.Weights = append(v.Weights, counts[col]*m.idf[col])
	}
	v.normalize()
	return v
}

// Vocabulary returns the fitted vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// Len returns the number of fitted rows.
func (m *Model) Len() int { return len(m.rows) }

// Row returns the vector of the i-th fitted document. Callers must not modify it.
func (m *Model) Row(i int) Vector { return m.rows[i] }

// Rows returns all fitted rows in input order. Callers must not modify them.
func (m *Model) Rows() []Vector { return m.rows }

// IDF returns the inverse document frequency of term, or 0 if it is unknown.
func (m *Model) IDF(term string) float64 {
	if col, ok := m.vocab.index[term]; ok {
		return m.idf[col]
	}
	return 0
}
