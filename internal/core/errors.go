package core

import (
	"errors"
	"fmt"

	"dancewave-backend-go/internal/db"
)

var (
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadySelected    = errors.New("class already selected")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUpstreamPayment    = errors.New("payment provider failure")
	ErrInvalidInput       = errors.New("invalid input")
)

// storageError classifies a repository error. Malformed ids become ErrInvalidInput,
// everything else is reported as ErrStorageUnavailable. The cause stays in the chain.
func storageError(op string, err error) error {
	if errors.Is(err, db.ErrInvalidID) {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
