package submissions

import (
	"errors"

	"coursefit-backend/internal/catalog"
)

var (
	ErrNotFound     = errors.New("submission not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrIncomplete   = errors.New("answers incomplete")
)

// IncompleteError carries the per-section gaps of a rejected answer set.
type IncompleteError struct {
	Completeness catalog.Completeness
}

func (e *IncompleteError) Error() string {
	return ErrIncomplete.Error()
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}
