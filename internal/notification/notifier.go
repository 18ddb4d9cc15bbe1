package notification

import (
	"context"
	"log"
)

// Notifier is the outbound event boundary of the scheduling core.
type Notifier interface {
	NotifyMaintenanceNeeded(ctx context.Context, equipmentID int64, reason string) error
	NotifyAssignmentProposed(ctx context.Context, staffID, bookingID int64, role string) error
}

// LogNotifier writes events to the process log. Used when no broker is
// configured and as the test default.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) NotifyMaintenanceNeeded(_ context.Context, equipmentID int64, reason string) error {
	log.Printf("notify maintenance_needed equipment_id=%d reason=%q", equipmentID, reason)
	return nil
}

func (LogNotifier) NotifyAssignmentProposed(_ context.Context, staffID, bookingID int64, role string) error {
	log.Printf("notify assignment_proposed staff_id=%d booking_id=%d role=%s", staffID, bookingID, role)
	return nil
}
