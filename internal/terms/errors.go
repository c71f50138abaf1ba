package terms

import "errors"

// Validation errors. Callers map these to client errors; anything else
// returned by the service is a storage failure.
var (
	ErrEmptyTerm   = errors.New("search term is required")
	ErrEmptyOrigin = errors.New("origin key is required")
)

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTerm) || errors.Is(err, ErrEmptyOrigin)
}
