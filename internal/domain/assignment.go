package domain

import "time"

type AssignmentStatus string

const (
	// Staff assignments.
	AssignmentProposed AssignmentStatus = "proposed"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentDeclined AssignmentStatus = "declined"
	// Equipment assignments mirror the custody record.
	AssignmentOpen   AssignmentStatus = "open"
	AssignmentClosed AssignmentStatus = "closed"
	// Rooms carry no sub-state; they are booked while the assignment is live.
	AssignmentBooked AssignmentStatus = "booked"
	// Set when the owning booking is cancelled or the window moves away.
	AssignmentReleased AssignmentStatus = "released"
)

// ResourceAssignment binds one resource to one booking occurrence over the
// booking's effective window (window expanded by buffers).
type ResourceAssignment struct {
	ID         int64            `json:"id"`
	BookingID  int64            `json:"booking_id"`
	StudioID   int64            `json:"studio_id"`
	Kind       ResourceKind     `json:"kind"`
	ResourceID int64            `json:"resource_id"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	Status     AssignmentStatus `json:"status"`
	StaffRole  string           `json:"staff_role,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (a *ResourceAssignment) Window() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}

// Active reports whether the assignment still occupies its window for
// conflict purposes.
func (a *ResourceAssignment) Active() bool {
	switch a.Status {
	case AssignmentDeclined, AssignmentReleased, AssignmentClosed:
		return false
	}
	return true
}

func initialAssignmentStatus(kind ResourceKind) AssignmentStatus {
	switch kind {
	case ResourceStaff:
		return AssignmentProposed
	case ResourceEquipment:
		return AssignmentOpen
	default:
		return AssignmentBooked
	}
}

// NewAssignment builds the assignment record for one resource of one
// occurrence, with the effective window already applied.
func NewAssignment(bookingID, studioID int64, ref ResourceRef, effective Interval) ResourceAssignment {
	return ResourceAssignment{
		BookingID:  bookingID,
		StudioID:   studioID,
		Kind:       ref.Kind,
		ResourceID: ref.ID,
		StartTime:  effective.Start,
		EndTime:    effective.End,
		Status:     initialAssignmentStatus(ref.Kind),
	}
}
