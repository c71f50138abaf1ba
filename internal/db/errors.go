package db

import "errors"

// Domain-level database error sentinels.
var (
	// ErrRecordNotFound is returned when no search record matches a lookup.
	ErrRecordNotFound = errors.New("search record not found")
)
