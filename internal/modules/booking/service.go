package booking

import (
	"context"
	"errors"
	"time"

	"studioops/internal/domain"
	"studioops/internal/modules/availability"
	"studioops/internal/pkg/lock"
	"studioops/internal/recurrence"
	"studioops/internal/repository"
)

// ConflictPolicy decides what happens when some occurrences of a
// recurring series conflict. The engine exposes the choice; it never
// decides it.
type ConflictPolicy string

const (
	RejectSeries   ConflictPolicy = "reject_series"
	SkipOccurrence ConflictPolicy = "skip_occurrence"
)

// SubmitRequest is the service-level submission. DRAFT is never persisted
// standalone; a successful submit lands directly in PENDING.
type SubmitRequest struct {
	StudioID     int64
	CreatedBy    int64
	Window       domain.Interval
	LocationKind domain.LocationKind

	BufferBefore time.Duration
	BufferAfter  time.Duration

	Recurrence     *domain.RecurrencePattern
	ConflictPolicy ConflictPolicy

	StaffIDs     []int64
	StaffRoles   map[int64]string
	EquipmentIDs []int64
	RoomIDs      []int64

	Notes string
}

// SubmitResult reports what was committed. Skipped carries occurrences
// dropped under the skip_occurrence policy, with their conflict detail.
type SubmitResult struct {
	Booking     *domain.Booking
	Assignments []domain.ResourceAssignment
	Occurrences []domain.Interval
	Skipped     []availability.OccurrenceReport
}

type Service struct {
	bookings    BookingRepository
	assignments AssignmentStore
	checker     AvailabilityChecker
	expander    Expander
	guard       lock.Guard
	notifs      NotificationSender
	now         func() time.Time
}

func NewService(
	bookings BookingRepository,
	assignments AssignmentStore,
	checker AvailabilityChecker,
	expander Expander,
	guard lock.Guard,
	notifs NotificationSender,
) *Service {
	return &Service{
		bookings:    bookings,
		assignments: assignments,
		checker:     checker,
		expander:    expander,
		guard:       guard,
		notifs:      notifs,
		now:         time.Now,
	}
}

// Submit validates the candidate, expands recurrence, and commits the
// booking plus its assignments under the resource guard. On conflict
// nothing is persisted and the full detail is returned.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if !req.Window.Valid() {
		return nil, ErrValidation
	}
	if req.BufferBefore < 0 || req.BufferAfter < 0 {
		return nil, ErrValidation
	}
	if len(req.StaffIDs)+len(req.EquipmentIDs)+len(req.RoomIDs) == 0 {
		return nil, ErrValidation
	}
	policy := req.ConflictPolicy
	if policy == "" {
		policy = RejectSeries
	}
	switch policy {
	case RejectSeries, SkipOccurrence:
	default:
		return nil, ErrValidation
	}

	occurrences := []domain.Interval{req.Window}
	if req.Recurrence != nil {
		var err error
		occurrences, err = s.expander.Expand(*req.Recurrence, req.Window)
		if err != nil {
			if errors.Is(err, recurrence.ErrInvalidPattern) || errors.Is(err, recurrence.ErrInvalidBase) {
				return nil, ErrValidation
			}
			return nil, err
		}
		if len(occurrences) == 0 {
			return nil, ErrValidation
		}
	}

	b := &domain.Booking{
		StudioID:        req.StudioID,
		CreatedBy:       req.CreatedBy,
		StartTime:       req.Window.Start,
		EndTime:         req.Window.End,
		LocationKind:    req.LocationKind,
		Status:          domain.BookingPending,
		BufferBeforeMin: int(req.BufferBefore / time.Minute),
		BufferAfterMin:  int(req.BufferAfter / time.Minute),
		Recurrence:      req.Recurrence,
		StaffIDs:        req.StaffIDs,
		EquipmentIDs:    req.EquipmentIDs,
		RoomIDs:         req.RoomIDs,
		Notes:           req.Notes,
	}

	query := availability.Query{
		StudioID:     req.StudioID,
		Window:       req.Window,
		BufferBefore: req.BufferBefore,
		BufferAfter:  req.BufferAfter,
		StaffIDs:     req.StaffIDs,
		EquipmentIDs: req.EquipmentIDs,
		RoomIDs:      req.RoomIDs,
	}

	result := &SubmitResult{}
	commit := func() error {
		reports, err := s.checker.CheckOccurrences(ctx, query, occurrences)
		if err != nil {
			return err
		}

		kept := make([]domain.Interval, 0, len(reports))
		skipped := make([]availability.OccurrenceReport, 0)
		for _, occ := range reports {
			if occ.Report.Available {
				kept = append(kept, occ.Occurrence)
			} else {
				skipped = append(skipped, occ)
			}
		}
		if len(skipped) > 0 && policy == RejectSeries {
			return &ConflictError{Occurrences: reports}
		}
		if len(kept) == 0 {
			return &ConflictError{Occurrences: reports}
		}

		// The stored window must reflect a committed occurrence; under
		// skip_occurrence the base window itself may have been dropped.
		b.StartTime = kept[0].Start
		b.EndTime = kept[0].End

		if err := s.bookings.Create(ctx, b); err != nil {
			return err
		}

		assignments := make([]domain.ResourceAssignment, 0, len(kept)*len(b.Resources()))
		for _, occ := range kept {
			effective := occ.WithBuffers(req.BufferBefore, req.BufferAfter)
			for _, ref := range b.Resources() {
				a := domain.NewAssignment(b.ID, b.StudioID, ref, effective)
				if ref.Kind == domain.ResourceStaff {
					a.StaffRole = req.StaffRoles[ref.ID]
				}
				assignments = append(assignments, a)
			}
		}

		inserted, err := s.assignments.InsertAtomic(ctx, assignments)
		if err != nil {
			// The booking record must not outlive a failed commit.
			_ = s.bookings.CancelWithReason(ctx, b.ID, "commit aborted")
			if repository.IsOverlapViolation(err) {
				return ErrConcurrency
			}
			return err
		}

		result.Booking = b
		result.Assignments = inserted
		result.Occurrences = kept
		result.Skipped = skipped
		return nil
	}

	if err := s.guard.Do(ctx, lockKeys(b.Resources()), commit); err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrConcurrency
		}
		return nil, err
	}

	if s.notifs != nil {
		for _, id := range req.StaffIDs {
			_ = s.notifs.NotifyAssignmentProposed(ctx, id, b.ID, req.StaffRoles[id])
		}
	}

	return result, nil
}

// Confirm moves PENDING to CONFIRMED. Every staff assignment must be
// accepted unless an admin explicitly overrides.
func (s *Service) Confirm(ctx context.Context, id int64, adminOverride bool) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidTransition
	}

	if !adminOverride {
		assignments, err := s.assignments.ListByBooking(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			if a.Kind == domain.ResourceStaff && a.Active() && a.Status != domain.AssignmentAccepted {
				return nil, ErrStaffNotAccepted
			}
		}
	}

	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingConfirmed); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Reschedule re-runs the availability check excluding the booking itself,
// then replaces the window and re-derives every assignment's effective
// window. On conflict the booking is left untouched.
func (s *Service) Reschedule(ctx context.Context, id int64, newWindow domain.Interval) (*domain.Booking, error) {
	if !newWindow.Valid() {
		return nil, ErrValidation
	}

	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	// A recurring series has many materialized occurrences; moving one
	// window is ambiguous. Cancel and resubmit instead.
	if b.Recurrence != nil {
		return nil, ErrValidation
	}

	query := availability.Query{
		StudioID:         b.StudioID,
		Window:           newWindow,
		BufferBefore:     b.BufferBefore(),
		BufferAfter:      b.BufferAfter(),
		StaffIDs:         b.StaffIDs,
		EquipmentIDs:     b.EquipmentIDs,
		RoomIDs:          b.RoomIDs,
		ExcludeBookingID: b.ID,
	}

	err = s.guard.Do(ctx, lockKeys(b.Resources()), func() error {
		report, err := s.checker.Check(ctx, query)
		if err != nil {
			return err
		}
		if !report.Available {
			return &ConflictError{Occurrences: []availability.OccurrenceReport{
				{Occurrence: newWindow, Report: *report},
			}}
		}

		if err := s.bookings.UpdateWindow(ctx, id, newWindow); err != nil {
			return err
		}
		effective := newWindow.WithBuffers(b.BufferBefore(), b.BufferAfter())
		return s.assignments.UpdateWindowsForBooking(ctx, id, effective)
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrConcurrency
		}
		return nil, err
	}

	return s.get(ctx, id)
}

// Cancel is reachable from any non-terminal state. Scheduling assignments
// are released; equipment still physically out stays out until checked in
// through the ledger.
func (s *Service) Cancel(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	// Release before the status write: a failure here leaves the booking
	// non-terminal and retryable, never cancelled with assignments still
	// occupying the calendar.
	if err := s.assignments.ReleaseForBooking(ctx, id); err != nil {
		return nil, err
	}
	if err := s.bookings.CancelWithReason(ctx, id, reason); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Start moves CONFIRMED to IN_PROGRESS when the shoot begins.
func (s *Service) Start(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingInProgress); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Complete is permitted once the window has passed, or at any time via
// explicit admin action.
func (s *Service) Complete(ctx context.Context, id int64, adminOverride bool) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingInProgress {
		return nil, ErrInvalidTransition
	}
	if !adminOverride && s.now().Before(b.EndTime) {
		return nil, ErrNotDue
	}
	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCompleted); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// RespondToAssignment records a staff member accepting or declining a
// proposed assignment.
func (s *Service) RespondToAssignment(ctx context.Context, assignmentID int64, accept bool) (*domain.ResourceAssignment, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.Kind != domain.ResourceStaff || a.Status != domain.AssignmentProposed {
		return nil, ErrInvalidTransition
	}

	status := domain.AssignmentDeclined
	if accept {
		status = domain.AssignmentAccepted
	}
	if err := s.assignments.UpdateStatus(ctx, assignmentID, status); err != nil {
		return nil, err
	}
	return s.assignments.GetByID(ctx, assignmentID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.get(ctx, id)
}

func (s *Service) GetByStudio(ctx context.Context, studioID int64) ([]domain.Booking, error) {
	return s.bookings.GetByStudioID(ctx, studioID)
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func lockKeys(refs []domain.ResourceRef) []string {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, ref.LockKey())
	}
	return keys
}
