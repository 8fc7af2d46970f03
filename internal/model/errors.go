package model

import "errors"

var (
	// ErrValidation marks input rejected before any mutation: empty task text,
	// unknown category, malformed dates or colors.
	ErrValidation = errors.New("validation failed")

	ErrDuplicate         = errors.New("already exists")
	ErrProtectedCategory = errors.New("default categories cannot be removed")
	ErrNotFound          = errors.New("not found")

	// ErrQuotaExceeded is returned when the storage medium refuses a write for
	// lack of space. The in-memory state stays authoritative until the next
	// successful save.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrMalformedData aborts an import as a whole.
	ErrMalformedData = errors.New("malformed data")
)
