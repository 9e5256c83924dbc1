package tfidf

import (
	"regexp"
	"strings"
)

// wordPattern matches runs of two or more letters, digits or underscores.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenizer lowercases text, extracts words and drops stop words.
// It is immutable after construction and safe for concurrent use.
type Tokenizer struct {
	stop map[string]struct{}
}

// NewTokenizer creates a tokenizer with the given stop words.
// Stop words are matched after lowercasing.
func NewTokenizer(stopWords []string) *Tokenizer {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stop: stop}
}

// Tokenize returns the surviving terms of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	terms := words[:0]
	for _, w := range words {
		if _, ok := t.stop[w]; ok {
			continue
		}
		terms = append(terms, w)
	}
	return terms
}

// IsStopWord reports whether w is dropped by the tokenizer.
func (t *Tokenizer) IsStopWord(w string) bool {
	_, ok := t.stop[strings.ToLower(w)]
	return ok
}
