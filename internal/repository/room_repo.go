package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studioops/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	StudioID    int64     `gorm:"column:studio_id;index"`
	Name        string    `gorm:"column:name"`
	Description string    `gorm:"column:description"`
	AreaSqm     int       `gorm:"column:area_sqm"`
	Capacity    int       `gorm:"column:capacity"`
	RoomType    string    `gorm:"column:room_type"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) domain.Room {
	return domain.Room{
		ID:          m.ID,
		StudioID:    m.StudioID,
		Name:        m.Name,
		Description: m.Description,
		AreaSqm:     m.AreaSqm,
		Capacity:    m.Capacity,
		RoomType:    domain.RoomType(m.RoomType),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := roomModel{
		StudioID:    room.StudioID,
		Name:        room.Name,
		Description: room.Description,
		AreaSqm:     room.AreaSqm,
		Capacity:    room.Capacity,
		RoomType:    string(room.RoomType),
		IsActive:    room.IsActive,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*room = toDomainRoom(m)
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	room := toDomainRoom(m)
	return &room, nil
}

func (r *RoomRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.Room, error) {
	var models []roomModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("name ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Room, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainRoom(m))
	}
	return out, nil
}
