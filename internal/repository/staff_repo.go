package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studioops/internal/domain"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

type staffModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StudioID  int64     `gorm:"column:studio_id;index"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	Role      string    `gorm:"column:role"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (staffModel) TableName() string { return "staff" }

func toDomainStaff(m staffModel) domain.Staff {
	return domain.Staff{
		ID:        m.ID,
		StudioID:  m.StudioID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Role:      domain.StaffRole(m.Role),
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	m := staffModel{
		StudioID: s.StudioID,
		Name:     s.Name,
		Email:    s.Email,
		Phone:    s.Phone,
		Role:     string(s.Role),
		IsActive: s.IsActive,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*s = toDomainStaff(m)
	return nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	var m staffModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	s := toDomainStaff(m)
	return &s, nil
}

func (r *StaffRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.Staff, error) {
	var models []staffModel
	tx := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("name ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Staff, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainStaff(m))
	}
	return out, nil
}
