package booking

import (
	"errors"
	"fmt"

	"studioops/internal/modules/availability"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStaffNotAccepted  = errors.New("not all staff assignments accepted")
	ErrNotDue            = errors.New("booking has not reached its end time")
	// ErrConcurrency means the commit guard detected a race. The one error
	// a caller may retry, exactly once: the precondition may now hold, or
	// legitimately fail as a plain conflict.
	ErrConcurrency = errors.New("concurrent commit detected")
)

// ConflictError carries the full per-occurrence, per-resource conflict
// detail so the caller can pick a different resource or window instead of
// guessing.
type ConflictError struct {
	Occurrences []availability.OccurrenceReport
}

func (e *ConflictError) Error() string {
	conflicting := 0
	for _, occ := range e.Occurrences {
		if !occ.Report.Available {
			conflicting++
		}
	}
	return fmt.Sprintf("booking conflict: %d of %d occurrences unavailable", conflicting, len(e.Occurrences))
}
