package domain

import "time"

type RoomType string

const (
	RoomFashion    RoomType = "Fashion"
	RoomPortrait   RoomType = "Portrait"
	RoomCreative   RoomType = "Creative"
	RoomCommercial RoomType = "Commercial"
)

type Room struct {
	ID          int64     `json:"id"`
	StudioID    int64     `json:"studio_id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	AreaSqm     int       `json:"area_sqm,omitempty"`
	Capacity    int       `json:"capacity,omitempty"`
	RoomType    RoomType  `json:"room_type,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
