package db

import "errors"

var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a natural-key uniqueness constraint.
	ErrDuplicate = errors.New("duplicate document")
	// ErrInvalidID is returned when an identifier is malformed for the driver.
	ErrInvalidID = errors.New("invalid document id")
)
