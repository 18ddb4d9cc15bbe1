package equipment

import (
	"errors"
	"fmt"

	"studioops/internal/domain"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("equipment or assignment not found")
	ErrAlreadyCheckedIn = errors.New("assignment already checked in")
	// ErrConcurrency means a concurrent custody operation won the race.
	ErrConcurrency = errors.New("concurrent custody operation detected")
)

// StateError rejects a checkout against equipment that is not available,
// naming the status that blocked it.
type StateError struct {
	EquipmentID int64
	Status      domain.EquipmentStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("equipment %d is %s, not available for checkout", e.EquipmentID, e.Status)
}
