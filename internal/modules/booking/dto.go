package booking

import (
	"time"

	"studioops/internal/domain"
	"studioops/internal/modules/availability"
)

type recurrenceRequest struct {
	Frequency string     `json:"frequency" binding:"required"`
	Interval  int        `json:"interval" binding:"required,min=1"`
	EndDate   *time.Time `json:"end_date"`
	Weekdays  []int      `json:"weekdays"`
}

type SubmitBookingRequest struct {
	StudioID     int64     `json:"studio_id" binding:"required"`
	CreatedBy    int64     `json:"created_by" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	LocationKind string    `json:"location_kind"`

	BufferBeforeMin int `json:"buffer_before_min" binding:"min=0"`
	BufferAfterMin  int `json:"buffer_after_min" binding:"min=0"`

	Recurrence *recurrenceRequest `json:"recurrence"`
	OnConflict string             `json:"on_conflict"`

	StaffIDs     []int64          `json:"staff_ids"`
	StaffRoles   map[int64]string `json:"staff_roles"`
	EquipmentIDs []int64          `json:"equipment_ids"`
	RoomIDs      []int64          `json:"room_ids"`

	Notes string `json:"notes"`
}

func (r SubmitBookingRequest) toService() SubmitRequest {
	req := SubmitRequest{
		StudioID:       r.StudioID,
		CreatedBy:      r.CreatedBy,
		Window:         domain.Interval{Start: r.StartTime, End: r.EndTime},
		LocationKind:   domain.LocationKind(r.LocationKind),
		BufferBefore:   time.Duration(r.BufferBeforeMin) * time.Minute,
		BufferAfter:    time.Duration(r.BufferAfterMin) * time.Minute,
		ConflictPolicy: ConflictPolicy(r.OnConflict),
		StaffIDs:       r.StaffIDs,
		StaffRoles:     r.StaffRoles,
		EquipmentIDs:   r.EquipmentIDs,
		RoomIDs:        r.RoomIDs,
		Notes:          r.Notes,
	}
	if r.Recurrence != nil {
		weekdays := make([]time.Weekday, 0, len(r.Recurrence.Weekdays))
		for _, wd := range r.Recurrence.Weekdays {
			weekdays = append(weekdays, time.Weekday(wd))
		}
		req.Recurrence = &domain.RecurrencePattern{
			Frequency: domain.Frequency(r.Recurrence.Frequency),
			Interval:  r.Recurrence.Interval,
			EndDate:   r.Recurrence.EndDate,
			Weekdays:  weekdays,
		}
	}
	return req
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ConfirmRequest struct {
	AdminOverride bool `json:"admin_override"`
}

type CompleteRequest struct {
	AdminOverride bool `json:"admin_override"`
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

type submitResponse struct {
	Booking     *domain.Booking                 `json:"booking"`
	Assignments []domain.ResourceAssignment     `json:"assignments"`
	Occurrences []domain.Interval               `json:"occurrences"`
	Skipped     []availability.OccurrenceReport `json:"skipped_occurrences,omitempty"`
}
