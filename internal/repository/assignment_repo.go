package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studioops/internal/domain"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

type assignmentModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;index"`
	StudioID   int64     `gorm:"column:studio_id;index"`
	Kind       string    `gorm:"column:kind;index:idx_assignment_resource"`
	ResourceID int64     `gorm:"column:resource_id;index:idx_assignment_resource"`
	StartTime  time.Time `gorm:"column:start_time"`
	EndTime    time.Time `gorm:"column:end_time"`
	Status     string    `gorm:"column:status;index"`
	StaffRole  string    `gorm:"column:staff_role"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (assignmentModel) TableName() string { return "resource_assignments" }

func toDomainAssignment(m assignmentModel) domain.ResourceAssignment {
	return domain.ResourceAssignment{
		ID:         m.ID,
		BookingID:  m.BookingID,
		StudioID:   m.StudioID,
		Kind:       domain.ResourceKind(m.Kind),
		ResourceID: m.ResourceID,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Status:     domain.AssignmentStatus(m.Status),
		StaffRole:  m.StaffRole,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toAssignmentModel(a domain.ResourceAssignment) assignmentModel {
	return assignmentModel{
		ID:         a.ID,
		BookingID:  a.BookingID,
		StudioID:   a.StudioID,
		Kind:       string(a.Kind),
		ResourceID: a.ResourceID,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Status:     string(a.Status),
		StaffRole:  a.StaffRole,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

var inactiveStatuses = []string{
	string(domain.AssignmentDeclined),
	string(domain.AssignmentReleased),
	string(domain.AssignmentClosed),
}

// FetchActive returns every assignment still occupying a window for the
// given resource. Assignments of cancelled bookings are released on
// cancellation, so the status filter is sufficient here.
func (r *AssignmentRepository) FetchActive(ctx context.Context, studioID int64, kind domain.ResourceKind, resourceID int64) ([]domain.ResourceAssignment, error) {
	var models []assignmentModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ? AND kind = ? AND resource_id = ?", studioID, string(kind), resourceID).
		Where("status NOT IN ?", inactiveStatuses).
		Order("start_time ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.ResourceAssignment, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainAssignment(m))
	}
	return out, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.ResourceAssignment, error) {
	var m assignmentModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	a := toDomainAssignment(m)
	return &a, nil
}

func (r *AssignmentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.ResourceAssignment, error) {
	var models []assignmentModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("start_time ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.ResourceAssignment, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainAssignment(m))
	}
	return out, nil
}

// InsertAtomic writes all assignments of one commit in a single
// transaction, so a multi-resource booking either lands whole or not at
// all. Constraint violations bubble up for the caller to classify.
func (r *AssignmentRepository) InsertAtomic(ctx context.Context, assignments []domain.ResourceAssignment) ([]domain.ResourceAssignment, error) {
	models := make([]assignmentModel, 0, len(assignments))
	for _, a := range assignments {
		models = append(models, toAssignmentModel(a))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range models {
			if err := tx.Create(&models[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ResourceAssignment, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainAssignment(m))
	}
	return out, nil
}

func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AssignmentStatus) error {
	tx := r.db.WithContext(ctx).Model(&assignmentModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseForBooking frees every live assignment of a booking. Closed
// equipment custody records are untouched: cancellation affects
// scheduling, not physical possession.
func (r *AssignmentRepository) ReleaseForBooking(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Model(&assignmentModel{}).
		Where("booking_id = ?", bookingID).
		Where("status NOT IN ?", inactiveStatuses).
		Update("status", string(domain.AssignmentReleased)).Error
}

// UpdateWindowsForBooking re-derives every assignment window after a
// reschedule. Buffers are per-booking, so all assignments share one
// effective window per occurrence; single-occurrence bookings shift all
// rows to the new window.
func (r *AssignmentRepository) UpdateWindowsForBooking(ctx context.Context, bookingID int64, effective domain.Interval) error {
	return r.db.WithContext(ctx).Model(&assignmentModel{}).
		Where("booking_id = ?", bookingID).
		Where("status NOT IN ?", inactiveStatuses).
		Updates(map[string]any{
			"start_time": effective.Start,
			"end_time":   effective.End,
		}).Error
}
