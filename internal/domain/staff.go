package domain

import "time"

type StaffRole string

const (
	RolePhotographer StaffRole = "photographer"
	RoleAssistant    StaffRole = "assistant"
	RoleStylist      StaffRole = "stylist"
	RoleEditor       StaffRole = "editor"
)

type Staff struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      StaffRole `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
