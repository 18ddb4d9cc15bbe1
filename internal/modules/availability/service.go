package availability

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"studioops/internal/domain"
)

// DefaultCustodyHorizon bounds how far an open equipment custody blocks
// the calendar past "now". The true return time is unknown while the item
// is out, so conflict math cannot trust the expected return alone.
const DefaultCustodyHorizon = 72 * time.Hour

// Query is one availability question: a candidate window plus the
// resources a booking would touch. ExcludeBookingID lets a reschedule
// ignore the booking's own assignments.
type Query struct {
	StudioID         int64
	Window           domain.Interval
	BufferBefore     time.Duration
	BufferAfter      time.Duration
	StaffIDs         []int64
	EquipmentIDs     []int64
	RoomIDs          []int64
	ExcludeBookingID int64
}

func (q Query) resources() []domain.ResourceRef {
	out := make([]domain.ResourceRef, 0, len(q.StaffIDs)+len(q.EquipmentIDs)+len(q.RoomIDs))
	for _, id := range q.StaffIDs {
		out = append(out, domain.ResourceRef{Kind: domain.ResourceStaff, ID: id})
	}
	for _, id := range q.EquipmentIDs {
		out = append(out, domain.ResourceRef{Kind: domain.ResourceEquipment, ID: id})
	}
	for _, id := range q.RoomIDs {
		out = append(out, domain.ResourceRef{Kind: domain.ResourceRoom, ID: id})
	}
	return out
}

// Conflict names one existing occupation of a resource that overlaps the
// candidate window. AssignmentID is zero for open custody records, which
// are tracked in the equipment ledger rather than as booking assignments.
type Conflict struct {
	BookingID    int64           `json:"booking_id,omitempty"`
	AssignmentID int64           `json:"assignment_id,omitempty"`
	Window       domain.Interval `json:"window"`
}

// ResourceReport is the per-resource verdict. Conflicts are always
// carried so a caller can swap out just the conflicting resource instead
// of failing the whole booking.
type ResourceReport struct {
	Resource  domain.ResourceRef `json:"resource"`
	Available bool               `json:"available"`
	Conflicts []Conflict         `json:"conflicts,omitempty"`
}

// Report aggregates one candidate window across all requested resources.
type Report struct {
	Window    domain.Interval  `json:"window"`
	Effective domain.Interval  `json:"effective_window"`
	Available bool             `json:"available"`
	Resources []ResourceReport `json:"resources"`
}

// OccurrenceReport is one entry of a recurring-series check. Whether a
// conflicting occurrence aborts the series or is skipped is the caller's
// policy; this service only reports.
type OccurrenceReport struct {
	Occurrence domain.Interval `json:"occurrence"`
	Report     Report          `json:"report"`
}

type Service struct {
	assignments    AssignmentReader
	custody        CustodyReader
	catalog        ResourceCatalog
	custodyHorizon time.Duration
	now            func() time.Time
}

func NewService(assignments AssignmentReader, custody CustodyReader, catalog ResourceCatalog, custodyHorizon time.Duration) *Service {
	if custodyHorizon <= 0 {
		custodyHorizon = DefaultCustodyHorizon
	}
	return &Service{
		assignments:    assignments,
		custody:        custody,
		catalog:        catalog,
		custodyHorizon: custodyHorizon,
		now:            time.Now,
	}
}

// FindConflicts reports every existing assignment of one resource whose
// effective window overlaps the candidate window. An unknown resource id
// is an error, never an empty result.
func (s *Service) FindConflicts(ctx context.Context, studioID int64, ref domain.ResourceRef, candidate domain.Interval, excludeBookingID int64) ([]Conflict, error) {
	ok, err := s.catalog.Exists(ctx, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrResourceNotFound
	}

	existing, err := s.assignments.FetchActive(ctx, studioID, ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}

	conflicts := make([]Conflict, 0)
	for _, a := range existing {
		if excludeBookingID != 0 && a.BookingID == excludeBookingID {
			continue
		}
		if !a.Active() {
			continue
		}
		if a.Window().Overlaps(candidate) {
			conflicts = append(conflicts, Conflict{
				BookingID:    a.BookingID,
				AssignmentID: a.ID,
				Window:       a.Window(),
			})
		}
	}

	if ref.Kind == domain.ResourceEquipment {
		open, err := s.custody.FetchOpenByEquipment(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			window := open.CustodyWindow(s.now(), s.custodyHorizon)
			if window.Overlaps(candidate) {
				var bookingID int64
				if open.BookingID != nil {
					bookingID = *open.BookingID
				}
				if bookingID == 0 || bookingID != excludeBookingID {
					conflicts = append(conflicts, Conflict{BookingID: bookingID, Window: window})
				}
			}
		}
	}

	return conflicts, nil
}

// Check answers one candidate window for all requested resources. The
// per-resource lookups are independent and read-only, so they fan out
// concurrently and join before aggregation.
func (s *Service) Check(ctx context.Context, q Query) (*Report, error) {
	if !q.Window.Valid() {
		return nil, ErrValidation
	}
	if q.BufferBefore < 0 || q.BufferAfter < 0 {
		return nil, ErrValidation
	}

	refs := q.resources()
	if len(refs) == 0 {
		return nil, ErrValidation
	}

	effective := q.Window.WithBuffers(q.BufferBefore, q.BufferAfter)

	reports := make([]ResourceReport, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			conflicts, err := s.FindConflicts(gctx, q.StudioID, ref, effective, q.ExcludeBookingID)
			if err != nil {
				return err
			}
			reports[i] = ResourceReport{
				Resource:  ref,
				Available: len(conflicts) == 0,
				Conflicts: conflicts,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Window:    q.Window,
		Effective: effective,
		Available: true,
		Resources: reports,
	}
	for _, rr := range reports {
		if !rr.Available {
			report.Available = false
			break
		}
	}
	return report, nil
}

// CheckOccurrences runs the availability check once per expanded
// occurrence and returns the full sequence. It never decides the
// skip-versus-reject policy for a recurring series.
func (s *Service) CheckOccurrences(ctx context.Context, q Query, occurrences []domain.Interval) ([]OccurrenceReport, error) {
	out := make([]OccurrenceReport, 0, len(occurrences))
	for _, occ := range occurrences {
		oq := q
		oq.Window = occ
		report, err := s.Check(ctx, oq)
		if err != nil {
			return nil, err
		}
		out = append(out, OccurrenceReport{Occurrence: occ, Report: *report})
	}
	return out, nil
}
