package equipment

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studioops/internal/domain"
	"studioops/internal/pkg/lock"
	"studioops/internal/repository"
)

// memRepo is an in-memory ledger honoring the same guarantees the SQL
// layer gives: compare-and-swap status flips and guarded closes.
type memRepo struct {
	mu          sync.Mutex
	equipment   map[int64]*domain.Equipment
	assignments map[int64]*domain.EquipmentAssignment
	nextID      int64
}

func newMemRepo(items ...*domain.Equipment) *memRepo {
	r := &memRepo{
		equipment:   make(map[int64]*domain.Equipment),
		assignments: make(map[int64]*domain.EquipmentAssignment),
	}
	for _, eq := range items {
		r.equipment[eq.ID] = eq
	}
	return r
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*domain.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.equipment[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *eq
	return &cp, nil
}

func (r *memRepo) UpdateStatusFrom(_ context.Context, id int64, from, to domain.EquipmentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eq, ok := r.equipment[id]
	if !ok || eq.Status != from {
		return false, nil
	}
	eq.Status = to
	return true, nil
}

func (r *memRepo) AddUsage(_ context.Context, id int64, minutes int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eq, ok := r.equipment[id]; ok {
		eq.UsageMinutes += minutes
	}
	return nil
}

func (r *memRepo) CreateAssignment(_ context.Context, a *domain.EquipmentAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.assignments[a.ID] = &cp
	return nil
}

func (r *memRepo) GetAssignmentByID(_ context.Context, id int64) (*domain.EquipmentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) FetchOpenByEquipment(_ context.Context, equipmentID int64) (*domain.EquipmentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.EquipmentID == equipmentID && a.CheckedInAt == nil {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) CloseAssignment(_ context.Context, id int64, checkedInAt time.Time, condition, notes string, damageReported bool, damageDescription string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok || a.CheckedInAt != nil {
		return false, nil
	}
	a.CheckedInAt = &checkedInAt
	a.ReturnCondition = condition
	a.Notes = notes
	a.DamageReported = damageReported
	a.DamageDescription = damageDescription
	return true, nil
}

func (r *memRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.EquipmentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EquipmentAssignment, 0)
	for _, a := range r.assignments {
		if a.CheckedInAt == nil && a.ExpectedReturnAt.Before(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type MockMaintenanceNotifier struct {
	mock.Mock
}

func (m *MockMaintenanceNotifier) NotifyMaintenanceNeeded(ctx context.Context, equipmentID int64, reason string) error {
	args := m.Called(ctx, equipmentID, reason)
	return args.Error(0)
}

func newLedger(repo *memRepo, notifs NotificationSender) *Service {
	return NewService(repo, lock.NewKeyedMutex(), notifs)
}

func checkoutRequest(equipmentID int64, at time.Time) CheckOutRequest {
	return CheckOutRequest{
		EquipmentID:      equipmentID,
		CustodianID:      7,
		ExpectedReturnAt: at.Add(4 * time.Hour),
		Condition:        "good",
	}
}

func TestCheckOut_OpensCustodyAndFlipsStatus(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	a, err := svc.CheckOut(context.Background(), checkoutRequest(1, at))
	require.NoError(t, err)

	assert.NotEmpty(t, a.Reference)
	assert.Equal(t, at, a.CheckedOutAt)
	assert.Nil(t, a.CheckedInAt)

	eq, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.EquipmentInUse, eq.Status)
}

func TestCheckOut_SecondCheckoutWhileOpenFails(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	_, err := svc.CheckOut(context.Background(), checkoutRequest(1, at))
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), checkoutRequest(1, at))
	var state *StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, domain.EquipmentInUse, state.Status)
}

func TestCheckOut_NonAvailableStatusNamesTheStatus(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentMaintenance})
	svc := newLedger(repo, nil)
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	_, err := svc.CheckOut(context.Background(), checkoutRequest(1, at))
	var state *StateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, domain.EquipmentMaintenance, state.Status)
	assert.Contains(t, state.Error(), "maintenance")
}

func TestCheckOut_Validation(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	// expected return in the past
	req := checkoutRequest(1, at)
	req.ExpectedReturnAt = at.Add(-time.Hour)
	_, err := svc.CheckOut(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	// missing custodian
	req = checkoutRequest(1, at)
	req.CustodianID = 0
	_, err = svc.CheckOut(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	// unknown equipment
	_, err = svc.CheckOut(context.Background(), checkoutRequest(99, at))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckIn_RoundTripAccumulatesUsage(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable, UsageMinutes: 100})
	svc := newLedger(repo, nil)
	out := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return out }

	a, err := svc.CheckOut(context.Background(), checkoutRequest(1, out))
	require.NoError(t, err)

	svc.now = func() time.Time { return out.Add(90 * time.Minute) }
	closed, err := svc.CheckIn(context.Background(), CheckInRequest{
		AssignmentID: a.ID,
		Condition:    "good",
	})
	require.NoError(t, err)

	require.NotNil(t, closed.CheckedInAt)
	assert.False(t, closed.Open())

	eq, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.EquipmentAvailable, eq.Status)
	assert.Equal(t, int64(190), eq.UsageMinutes)

	// Custody released, so a fresh checkout succeeds.
	_, err = svc.CheckOut(context.Background(), checkoutRequest(1, out.Add(90*time.Minute)))
	assert.NoError(t, err)
}

func TestCheckIn_DamageRoutesToMaintenance(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	notifs := new(MockMaintenanceNotifier)
	svc := newLedger(repo, notifs)
	out := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return out }

	a, err := svc.CheckOut(context.Background(), checkoutRequest(1, out))
	require.NoError(t, err)

	notifs.On("NotifyMaintenanceNeeded", mock.Anything, int64(1), mock.MatchedBy(func(reason string) bool {
		return reason != ""
	})).Return(nil)

	svc.now = func() time.Time { return out.Add(time.Hour) }
	_, err = svc.CheckIn(context.Background(), CheckInRequest{
		AssignmentID:      a.ID,
		Condition:         "cracked filter thread",
		DamageReported:    true,
		DamageDescription: "dropped on set",
	})
	require.NoError(t, err)

	eq, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, domain.EquipmentMaintenance, eq.Status)
	notifs.AssertExpectations(t)

	// Maintenance blocks the next checkout until resolved.
	_, err = svc.CheckOut(context.Background(), checkoutRequest(1, out.Add(time.Hour)))
	var state *StateError
	assert.ErrorAs(t, err, &state)
}

func TestCheckIn_DamageRequiresDescription(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)

	_, err := svc.CheckIn(context.Background(), CheckInRequest{
		AssignmentID:   1,
		Condition:      "scratched",
		DamageReported: true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckIn_DoubleCheckInRejected(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	out := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return out }

	a, err := svc.CheckOut(context.Background(), checkoutRequest(1, out))
	require.NoError(t, err)

	svc.now = func() time.Time { return out.Add(time.Hour) }
	_, err = svc.CheckIn(context.Background(), CheckInRequest{AssignmentID: a.ID, Condition: "good"})
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), CheckInRequest{AssignmentID: a.ID, Condition: "good"})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestListOverdue(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	out := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return out }

	req := checkoutRequest(1, out)
	req.ExpectedReturnAt = out.Add(2 * time.Hour)
	a, err := svc.CheckOut(context.Background(), req)
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overdue)

	svc.now = func() time.Time { return out.Add(3 * time.Hour) }
	overdue, err = svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, a.ID, overdue[0].ID)
}

func TestCheckOut_ConcurrentExactlyOneWins(t *testing.T) {
	repo := newMemRepo(&domain.Equipment{ID: 1, Status: domain.EquipmentAvailable})
	svc := newLedger(repo, nil)
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	const attempts = 8
	var wg sync.WaitGroup
	var successes atomic.Int64

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CheckOut(context.Background(), checkoutRequest(1, at)); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load(), "one custody record per item at a time")

	open, err := repo.FetchOpenByEquipment(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, open)
}
