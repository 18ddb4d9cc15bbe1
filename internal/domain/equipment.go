package domain

import "time"

type EquipmentStatus string

const (
	EquipmentAvailable   EquipmentStatus = "available"
	EquipmentInUse       EquipmentStatus = "in_use"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentRetired     EquipmentStatus = "retired"
)

type Equipment struct {
	ID           int64           `json:"id"`
	StudioID     int64           `json:"studio_id"`
	RoomID       int64           `json:"room_id,omitempty"`
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category,omitempty"`
	Brand        string          `json:"brand,omitempty"`
	Model        string          `json:"model,omitempty"`
	SerialNumber string          `json:"serial_number,omitempty"`
	Status       EquipmentStatus `json:"status"`
	UsageMinutes int64           `json:"usage_minutes"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EquipmentAssignment is the physical-custody record for one checkout.
// CheckedInAt == nil means the item is currently out; for a given
// equipment id at most one assignment may be open at any time.
type EquipmentAssignment struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference"`
	EquipmentID int64  `json:"equipment_id"`
	CustodianID int64  `json:"custodian_id"`
	BookingID   *int64 `json:"booking_id,omitempty"`

	CheckedOutAt     time.Time  `json:"checked_out_at"`
	ExpectedReturnAt time.Time  `json:"expected_return_at"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`

	CheckoutCondition string `json:"checkout_condition,omitempty"`
	ReturnCondition   string `json:"return_condition,omitempty"`
	DamageReported    bool   `json:"damage_reported"`
	DamageDescription string `json:"damage_description,omitempty" gorm:"type:text"`
	Notes             string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *EquipmentAssignment) Open() bool {
	return a.CheckedInAt == nil
}

// CustodyWindow is the window the open custody occupies for conflict math.
// The true return time is unknown while the item is out, so the end is
// pushed to at least now plus the configured safety horizon.
func (a *EquipmentAssignment) CustodyWindow(now time.Time, horizon time.Duration) Interval {
	if a.CheckedInAt != nil {
		return Interval{Start: a.CheckedOutAt, End: *a.CheckedInAt}
	}
	end := a.ExpectedReturnAt
	if guard := now.Add(horizon); guard.After(end) {
		end = guard
	}
	return Interval{Start: a.CheckedOutAt, End: end}
}
