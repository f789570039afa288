package document

import "errors"

// Stable error kinds surfaced by the sync engine. Callers classify failures
// with errors.Is; everything else is a storage-layer error.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("invalid input")
)
