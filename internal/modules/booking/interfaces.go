package booking

import (
	"context"

	"studioops/internal/domain"
	"studioops/internal/modules/availability"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByStudioID(ctx context.Context, studioID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateWindow(ctx context.Context, id int64, window domain.Interval) error
	CancelWithReason(ctx context.Context, id int64, reason string) error
}

type AssignmentStore interface {
	InsertAtomic(ctx context.Context, assignments []domain.ResourceAssignment) ([]domain.ResourceAssignment, error)
	GetByID(ctx context.Context, id int64) (*domain.ResourceAssignment, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.ResourceAssignment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error
	ReleaseForBooking(ctx context.Context, bookingID int64) error
	UpdateWindowsForBooking(ctx context.Context, bookingID int64, effective domain.Interval) error
}

// AvailabilityChecker is the read side consulted before every commit.
type AvailabilityChecker interface {
	Check(ctx context.Context, q availability.Query) (*availability.Report, error)
	CheckOccurrences(ctx context.Context, q availability.Query, occurrences []domain.Interval) ([]availability.OccurrenceReport, error)
}

// Expander materializes a recurrence pattern into occurrence windows.
type Expander interface {
	Expand(p domain.RecurrencePattern, base domain.Interval) ([]domain.Interval, error)
}

type NotificationSender interface {
	NotifyAssignmentProposed(ctx context.Context, staffID, bookingID int64, role string) error
}
