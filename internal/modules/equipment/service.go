package equipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studioops/internal/domain"
	"studioops/internal/pkg/lock"
	"studioops/internal/repository"
)

type CheckOutRequest struct {
	EquipmentID      int64
	CustodianID      int64
	BookingID        *int64
	ExpectedReturnAt time.Time
	Condition        string
	Notes            string
}

type CheckInRequest struct {
	AssignmentID      int64
	Condition         string
	Notes             string
	DamageReported    bool
	DamageDescription string
}

// Service is the exclusive-custody ledger. All equipment state changes go
// through it; everything else reads custody records only.
type Service struct {
	repo   EquipmentRepository
	guard  lock.Guard
	notifs NotificationSender
	now    func() time.Time
}

func NewService(repo EquipmentRepository, guard lock.Guard, notifs NotificationSender) *Service {
	return &Service{repo: repo, guard: guard, notifs: notifs, now: time.Now}
}

// CheckOut opens a custody record and flips the equipment to IN_USE. The
// precondition check and the write run under the equipment's guard key,
// the same class of race as booking check-then-commit.
func (s *Service) CheckOut(ctx context.Context, req CheckOutRequest) (*domain.EquipmentAssignment, error) {
	if req.EquipmentID <= 0 || req.CustodianID <= 0 {
		return nil, ErrValidation
	}
	if !req.ExpectedReturnAt.After(s.now()) {
		return nil, ErrValidation
	}

	var created *domain.EquipmentAssignment
	err := s.guard.Do(ctx, []string{equipmentKey(req.EquipmentID)}, func() error {
		eq, err := s.repo.GetByID(ctx, req.EquipmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if eq.Status != domain.EquipmentAvailable {
			return &StateError{EquipmentID: eq.ID, Status: eq.Status}
		}

		open, err := s.repo.FetchOpenByEquipment(ctx, req.EquipmentID)
		if err != nil {
			return err
		}
		if open != nil {
			// Status said available but custody is still open; surface the
			// stronger invariant.
			return &StateError{EquipmentID: eq.ID, Status: domain.EquipmentInUse}
		}

		a := &domain.EquipmentAssignment{
			Reference:         uuid.NewString(),
			EquipmentID:       req.EquipmentID,
			CustodianID:       req.CustodianID,
			BookingID:         req.BookingID,
			CheckedOutAt:      s.now(),
			ExpectedReturnAt:  req.ExpectedReturnAt,
			CheckoutCondition: req.Condition,
			Notes:             req.Notes,
		}
		if err := s.repo.CreateAssignment(ctx, a); err != nil {
			if repository.IsOverlapViolation(err) {
				return ErrConcurrency
			}
			return err
		}

		flipped, err := s.repo.UpdateStatusFrom(ctx, req.EquipmentID, domain.EquipmentAvailable, domain.EquipmentInUse)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrConcurrency
		}

		created = a
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrConcurrency
		}
		return nil, err
	}
	return created, nil
}

// CheckIn closes the custody record, accumulates usage, and returns the
// equipment to AVAILABLE, or to MAINTENANCE when damage is reported.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*domain.EquipmentAssignment, error) {
	if req.AssignmentID <= 0 {
		return nil, ErrValidation
	}
	if req.DamageReported && req.DamageDescription == "" {
		return nil, ErrValidation
	}

	a, err := s.repo.GetAssignmentByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var closed *domain.EquipmentAssignment
	err = s.guard.Do(ctx, []string{equipmentKey(a.EquipmentID)}, func() error {
		if !a.Open() {
			return ErrAlreadyCheckedIn
		}

		checkedInAt := s.now()
		ok, err := s.repo.CloseAssignment(ctx, a.ID, checkedInAt, req.Condition, req.Notes, req.DamageReported, req.DamageDescription)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race with another check-in of the same record.
			return ErrAlreadyCheckedIn
		}

		usage := int64(checkedInAt.Sub(a.CheckedOutAt) / time.Minute)
		if usage > 0 {
			if err := s.repo.AddUsage(ctx, a.EquipmentID, usage); err != nil {
				return err
			}
		}

		target := domain.EquipmentAvailable
		if req.DamageReported {
			target = domain.EquipmentMaintenance
		}
		flipped, err := s.repo.UpdateStatusFrom(ctx, a.EquipmentID, domain.EquipmentInUse, target)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrConcurrency
		}

		closed, err = s.repo.GetAssignmentByID(ctx, a.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrConcurrency
		}
		return nil, err
	}

	if req.DamageReported && s.notifs != nil {
		reason := fmt.Sprintf("damage reported on check-in of assignment %s: %s", closed.Reference, req.DamageDescription)
		_ = s.notifs.NotifyMaintenanceNeeded(ctx, closed.EquipmentID, reason)
	}

	return closed, nil
}

// ListOverdue returns open assignments past their expected return.
func (s *Service) ListOverdue(ctx context.Context) ([]domain.EquipmentAssignment, error) {
	return s.repo.ListOverdue(ctx, s.now())
}

func (s *Service) GetAssignment(ctx context.Context, id int64) (*domain.EquipmentAssignment, error) {
	a, err := s.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func equipmentKey(id int64) string {
	return domain.ResourceRef{Kind: domain.ResourceEquipment, ID: id}.LockKey()
}
