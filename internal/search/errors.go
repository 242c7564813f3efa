package search

import (
	"fmt"

	"go.trai.ch/zerr"
)

// ErrNotIndexed is returned by Query before any players were indexed.
var ErrNotIndexed = zerr.New("search index is empty")

// StoreError represents a failure reading or writing persisted embeddings
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding store: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding store: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
