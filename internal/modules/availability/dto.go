package availability

import (
	"time"

	"studioops/internal/domain"
)

type CheckRequest struct {
	StudioID         int64     `json:"studioId" binding:"required"`
	StartDateTime    time.Time `json:"startDateTime" binding:"required"`
	EndDateTime      time.Time `json:"endDateTime" binding:"required"`
	BufferBeforeMin  int       `json:"bufferBeforeMinutes"`
	BufferAfterMin   int       `json:"bufferAfterMinutes"`
	StaffIDs         []int64   `json:"staffIds"`
	EquipmentIDs     []int64   `json:"equipmentIds"`
	RoomIDs          []int64   `json:"roomIds"`
	ExcludeBookingID int64     `json:"excludeBookingId"`
}

func (r CheckRequest) toQuery() Query {
	return Query{
		StudioID:         r.StudioID,
		Window:           domain.Interval{Start: r.StartDateTime, End: r.EndDateTime},
		BufferBefore:     time.Duration(r.BufferBeforeMin) * time.Minute,
		BufferAfter:      time.Duration(r.BufferAfterMin) * time.Minute,
		StaffIDs:         r.StaffIDs,
		EquipmentIDs:     r.EquipmentIDs,
		RoomIDs:          r.RoomIDs,
		ExcludeBookingID: r.ExcludeBookingID,
	}
}

type conflictResponse struct {
	BookingID int64           `json:"bookingId,omitempty"`
	Window    domain.Interval `json:"window"`
}

type resourceResponse struct {
	ResourceID   int64               `json:"resourceId"`
	ResourceKind domain.ResourceKind `json:"resourceKind"`
	IsAvailable  bool                `json:"isAvailable"`
	Conflicts    []conflictResponse  `json:"conflicts"`
}

func toResponse(report *Report) []resourceResponse {
	out := make([]resourceResponse, 0, len(report.Resources))
	for _, rr := range report.Resources {
		conflicts := make([]conflictResponse, 0, len(rr.Conflicts))
		for _, c := range rr.Conflicts {
			conflicts = append(conflicts, conflictResponse{BookingID: c.BookingID, Window: c.Window})
		}
		out = append(out, resourceResponse{
			ResourceID:   rr.Resource.ID,
			ResourceKind: rr.Resource.Kind,
			IsAvailable:  rr.Available,
			Conflicts:    conflicts,
		})
	}
	return out
}
