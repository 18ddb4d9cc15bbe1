package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"studioops/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	StudioID     int64     `gorm:"column:studio_id;index"`
	CreatedBy    int64     `gorm:"column:created_by"`
	StartTime    time.Time `gorm:"column:start_time"`
	EndTime      time.Time `gorm:"column:end_time"`
	LocationKind string    `gorm:"column:location_kind"`
	Status       string    `gorm:"column:status;index"`

	BufferBeforeMin int `gorm:"column:buffer_before_min"`
	BufferAfterMin  int `gorm:"column:buffer_after_min"`

	Recurrence   *domain.RecurrencePattern  `gorm:"column:recurrence;serializer:json"`
	StaffIDs     datatypes.JSONSlice[int64] `gorm:"column:staff_ids"`
	EquipmentIDs datatypes.JSONSlice[int64] `gorm:"column:equipment_ids"`
	RoomIDs      datatypes.JSONSlice[int64] `gorm:"column:room_ids"`

	Notes              *string    `gorm:"column:notes"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:              m.ID,
		StudioID:        m.StudioID,
		CreatedBy:       m.CreatedBy,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		LocationKind:    domain.LocationKind(m.LocationKind),
		Status:          domain.BookingStatus(m.Status),
		BufferBeforeMin: m.BufferBeforeMin,
		BufferAfterMin:  m.BufferAfterMin,
		Recurrence:      m.Recurrence,
		StaffIDs:        m.StaffIDs,
		EquipmentIDs:    m.EquipmentIDs,
		RoomIDs:         m.RoomIDs,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Notes != nil {
		b.Notes = *m.Notes
	}
	if m.CancellationReason != nil {
		b.CancellationReason = *m.CancellationReason
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	m := bookingModel{
		ID:              b.ID,
		StudioID:        b.StudioID,
		CreatedBy:       b.CreatedBy,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		LocationKind:    string(b.LocationKind),
		Status:          string(b.Status),
		BufferBeforeMin: b.BufferBeforeMin,
		BufferAfterMin:  b.BufferAfterMin,
		Recurrence:      b.Recurrence,
		StaffIDs:        b.StaffIDs,
		EquipmentIDs:    b.EquipmentIDs,
		RoomIDs:         b.RoomIDs,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Notes != "" {
		v := b.Notes
		m.Notes = &v
	}
	if b.CancellationReason != "" {
		v := b.CancellationReason
		m.CancellationReason = &v
	}
	return m
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByStudioID(ctx context.Context, studioID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("start_time ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
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

func (r *BookingRepository) UpdateWindow(ctx context.Context, id int64, window domain.Interval) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"start_time": window.Start,
			"end_time":   window.End,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, reason string) error {
	now := time.Now()
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        &now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
