package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studioops/internal/domain"
)

type MockAssignmentReader struct {
	mock.Mock
}

func (m *MockAssignmentReader) FetchActive(ctx context.Context, studioID int64, kind domain.ResourceKind, resourceID int64) ([]domain.ResourceAssignment, error) {
	args := m.Called(ctx, studioID, kind, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResourceAssignment), args.Error(1)
}

type MockCustodyReader struct {
	mock.Mock
}

func (m *MockCustodyReader) FetchOpenByEquipment(ctx context.Context, equipmentID int64) (*domain.EquipmentAssignment, error) {
	args := m.Called(ctx, equipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentAssignment), args.Error(1)
}

type MockResourceCatalog struct {
	mock.Mock
}

func (m *MockResourceCatalog) Exists(ctx context.Context, kind domain.ResourceKind, id int64) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func newTestService(assignments *MockAssignmentReader, custody *MockCustodyReader, catalog *MockResourceCatalog) *Service {
	return NewService(assignments, custody, catalog, 0)
}

func window(t *testing.T, start string, d time.Duration) domain.Interval {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	return domain.Interval{Start: s, End: s.Add(d)}
}

func TestCheck_BufferEnforcement(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	catalog.On("Exists", mock.Anything, domain.ResourceRoom, int64(1)).Return(true, nil)

	// Room 1 is held 09:00-11:00 with a 30-minute buffer tail already
	// baked into the stored effective window (ends 11:30).
	held := domain.ResourceAssignment{
		ID:         7,
		BookingID:  42,
		Kind:       domain.ResourceRoom,
		ResourceID: 1,
		StartTime:  time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 1, 11, 30, 0, 0, time.UTC),
		Status:     domain.AssignmentBooked,
	}
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceRoom, int64(1)).
		Return([]domain.ResourceAssignment{held}, nil)

	// 11:00-12:00 collides with the buffer tail.
	report, err := svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   window(t, "2024-06-01T11:00:00Z", time.Hour),
		RoomIDs:  []int64{1},
	})
	require.NoError(t, err)
	assert.False(t, report.Available)
	require.Len(t, report.Resources, 1)
	require.Len(t, report.Resources[0].Conflicts, 1)
	assert.Equal(t, int64(42), report.Resources[0].Conflicts[0].BookingID)

	// 11:30-12:30 starts exactly at the effective end: free.
	report, err = svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   window(t, "2024-06-01T11:30:00Z", time.Hour),
		RoomIDs:  []int64{1},
	})
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func TestCheck_ExcludeOwnBooking(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	catalog.On("Exists", mock.Anything, domain.ResourceRoom, int64(1)).Return(true, nil)

	own := domain.ResourceAssignment{
		ID:         8,
		BookingID:  42,
		Kind:       domain.ResourceRoom,
		ResourceID: 1,
		StartTime:  time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		Status:     domain.AssignmentBooked,
	}
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceRoom, int64(1)).
		Return([]domain.ResourceAssignment{own}, nil)

	// A booking never conflicts with itself on reschedule.
	report, err := svc.Check(context.Background(), Query{
		StudioID:         5,
		Window:           window(t, "2024-06-01T10:00:00Z", time.Hour),
		RoomIDs:          []int64{1},
		ExcludeBookingID: 42,
	})
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func TestCheck_OpenCustodyBlocksBeyondExpectedReturn(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	catalog.On("Exists", mock.Anything, domain.ResourceEquipment, int64(3)).Return(true, nil)
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceEquipment, int64(3)).
		Return([]domain.ResourceAssignment{}, nil)

	// Camera was due back an hour ago and has not been checked in. Until
	// it returns, its custody blocks out to now + the safety horizon.
	custody.On("FetchOpenByEquipment", mock.Anything, int64(3)).Return(&domain.EquipmentAssignment{
		ID:               11,
		EquipmentID:      3,
		CheckedOutAt:     now.Add(-24 * time.Hour),
		ExpectedReturnAt: now.Add(-time.Hour),
	}, nil)

	report, err := svc.Check(context.Background(), Query{
		StudioID:     5,
		Window:       window(t, "2024-06-02T09:00:00Z", time.Hour),
		EquipmentIDs: []int64{3},
	})
	require.NoError(t, err)
	assert.False(t, report.Available, "window inside the custody horizon must conflict")

	report, err = svc.Check(context.Background(), Query{
		StudioID:     5,
		Window:       window(t, "2024-06-10T09:00:00Z", time.Hour),
		EquipmentIDs: []int64{3},
	})
	require.NoError(t, err)
	assert.True(t, report.Available, "window past the custody horizon is free")
}

func TestCheck_UnknownResourceIsAnError(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	catalog.On("Exists", mock.Anything, domain.ResourceRoom, int64(999)).Return(false, nil)

	_, err := svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   window(t, "2024-06-01T10:00:00Z", time.Hour),
		RoomIDs:  []int64{999},
	})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCheck_RejectsInvalidQuery(t *testing.T) {
	svc := newTestService(new(MockAssignmentReader), new(MockCustodyReader), new(MockResourceCatalog))

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   domain.Interval{Start: at, End: at},
		RoomIDs:  []int64{1},
	})
	assert.ErrorIs(t, err, ErrValidation)

	// No resources requested.
	_, err = svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   window(t, "2024-06-01T10:00:00Z", time.Hour),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheck_AggregatesAcrossResources(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	catalog.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	busy := domain.ResourceAssignment{
		ID:         1,
		BookingID:  40,
		Kind:       domain.ResourceStaff,
		ResourceID: 2,
		StartTime:  time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Status:     domain.AssignmentAccepted,
	}
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceStaff, int64(2)).
		Return([]domain.ResourceAssignment{busy}, nil)
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceRoom, int64(1)).
		Return([]domain.ResourceAssignment{}, nil)

	report, err := svc.Check(context.Background(), Query{
		StudioID: 5,
		Window:   window(t, "2024-06-01T10:00:00Z", time.Hour),
		StaffIDs: []int64{2},
		RoomIDs:  []int64{1},
	})
	require.NoError(t, err)

	// Overall unavailable, but the per-resource detail lets the caller
	// substitute just the busy staffer.
	assert.False(t, report.Available)
	require.Len(t, report.Resources, 2)
	assert.False(t, report.Resources[0].Available)
	assert.True(t, report.Resources[1].Available)
}

func TestCheckOccurrences_ReportsPerOccurrence(t *testing.T) {
	assignments := new(MockAssignmentReader)
	custody := new(MockCustodyReader)
	catalog := new(MockResourceCatalog)
	svc := newTestService(assignments, custody, catalog)

	catalog.On("Exists", mock.Anything, domain.ResourceRoom, int64(1)).Return(true, nil)

	busy := domain.ResourceAssignment{
		ID:         1,
		BookingID:  40,
		Kind:       domain.ResourceRoom,
		ResourceID: 1,
		StartTime:  time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 6, 8, 11, 0, 0, 0, time.UTC),
		Status:     domain.AssignmentBooked,
	}
	assignments.On("FetchActive", mock.Anything, int64(5), domain.ResourceRoom, int64(1)).
		Return([]domain.ResourceAssignment{busy}, nil)

	occurrences := []domain.Interval{
		window(t, "2024-06-01T09:00:00Z", time.Hour),
		window(t, "2024-06-08T09:00:00Z", time.Hour),
		window(t, "2024-06-15T09:00:00Z", time.Hour),
	}

	got, err := svc.CheckOccurrences(context.Background(), Query{
		StudioID: 5,
		RoomIDs:  []int64{1},
		Window:   occurrences[0],
	}, occurrences)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.True(t, got[0].Report.Available)
	assert.False(t, got[1].Report.Available)
	assert.True(t, got[2].Report.Available)
}
