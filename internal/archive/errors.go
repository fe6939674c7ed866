package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrRefereeNotFound is returned by single-referee operations when the
	// referee id does not resolve. Batch operations count it instead.
	ErrRefereeNotFound = errors.New("referee not found")

	// ErrPurgeBlocked guards the destructive source purge: it is recorded
	// when a purge is requested for a run that reported errors.
	ErrPurgeBlocked = errors.New("source purge blocked: archival run reported errors")
)

// ValidationError rejects an operation before any extraction or mutation is
// attempted (non-past year, missing identifiers).
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
