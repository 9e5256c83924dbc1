package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus signals that the corpus build produced no items.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrItemNotFound signals that no local or remote source produced a match.
	ErrItemNotFound = errors.New("item not found")
	// ErrProviderUnavailable signals a failed call to the remote catalog provider.
	ErrProviderUnavailable = errors.New("catalog provider unavailable")
	// ErrInvalidQuery signals a missing or malformed query parameter.
	ErrInvalidQuery = errors.New("invalid query")
)

// NotFoundError wraps ErrItemNotFound with the query that was attempted.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrItemNotFound.Error(), e.Query)
}

func (e *NotFoundError) Unwrap() error { return ErrItemNotFound }

// NewNotFound creates a not found error echoing the attempted query.
func NewNotFound(query string) error {
	return &NotFoundError{Query: query}
}
