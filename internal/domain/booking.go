package domain

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingDraft      BookingStatus = "draft"
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type LocationKind string

const (
	LocationStudio  LocationKind = "studio"
	LocationOnSite  LocationKind = "on_site"
	LocationOutdoor LocationKind = "outdoor"
)

type Booking struct {
	ID           int64         `json:"id"`
	StudioID     int64         `json:"studio_id" validate:"required"`
	CreatedBy    int64         `json:"created_by"`
	StartTime    time.Time     `json:"start_time" validate:"required"`
	EndTime      time.Time     `json:"end_time" validate:"required"`
	LocationKind LocationKind  `json:"location_kind,omitempty"`
	Status       BookingStatus `json:"status"`

	// Buffers expand the window for conflict math on every resource.
	BufferBeforeMin int `json:"buffer_before_min"`
	BufferAfterMin  int `json:"buffer_after_min"`

	Recurrence *RecurrencePattern `json:"recurrence,omitempty" gorm:"serializer:json"`

	StaffIDs     datatypes.JSONSlice[int64] `json:"staff_ids,omitempty"`
	EquipmentIDs datatypes.JSONSlice[int64] `json:"equipment_ids,omitempty"`
	RoomIDs      datatypes.JSONSlice[int64] `json:"room_ids,omitempty"`

	Notes              string     `json:"notes,omitempty" gorm:"type:text"`
	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (b *Booking) Window() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

func (b *Booking) BufferBefore() time.Duration {
	return time.Duration(b.BufferBeforeMin) * time.Minute
}

func (b *Booking) BufferAfter() time.Duration {
	return time.Duration(b.BufferAfterMin) * time.Minute
}

// EffectiveWindow is the window used for all conflict math.
func (b *Booking) EffectiveWindow() Interval {
	return b.Window().WithBuffers(b.BufferBefore(), b.BufferAfter())
}

// Resources flattens the per-kind id sets into resource refs.
func (b *Booking) Resources() []ResourceRef {
	out := make([]ResourceRef, 0, len(b.StaffIDs)+len(b.EquipmentIDs)+len(b.RoomIDs))
	for _, id := range b.StaffIDs {
		out = append(out, ResourceRef{Kind: ResourceStaff, ID: id})
	}
	for _, id := range b.EquipmentIDs {
		out = append(out, ResourceRef{Kind: ResourceEquipment, ID: id})
	}
	for _, id := range b.RoomIDs {
		out = append(out, ResourceRef{Kind: ResourceRoom, ID: id})
	}
	return out
}
