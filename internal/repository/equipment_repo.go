package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studioops/internal/domain"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

type equipmentModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	StudioID     int64     `gorm:"column:studio_id;index"`
	RoomID       int64     `gorm:"column:room_id;index"`
	Name         string    `gorm:"column:name"`
	Category     string    `gorm:"column:category"`
	Brand        string    `gorm:"column:brand"`
	Model        string    `gorm:"column:model"`
	SerialNumber string    `gorm:"column:serial_number"`
	Status       string    `gorm:"column:status;index"`
	UsageMinutes int64     `gorm:"column:usage_minutes"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (equipmentModel) TableName() string { return "equipment" }

type equipmentAssignmentModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Reference   string `gorm:"column:reference;uniqueIndex"`
	EquipmentID int64  `gorm:"column:equipment_id;index"`
	CustodianID int64  `gorm:"column:custodian_id;index"`
	BookingID   *int64 `gorm:"column:booking_id"`

	CheckedOutAt     time.Time  `gorm:"column:checked_out_at"`
	ExpectedReturnAt time.Time  `gorm:"column:expected_return_at;index"`
	CheckedInAt      *time.Time `gorm:"column:checked_in_at;index"`

	CheckoutCondition string `gorm:"column:checkout_condition"`
	ReturnCondition   string `gorm:"column:return_condition"`
	DamageReported    bool   `gorm:"column:damage_reported"`
	DamageDescription string `gorm:"column:damage_description;type:text"`
	Notes             string `gorm:"column:notes;type:text"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (equipmentAssignmentModel) TableName() string { return "equipment_assignments" }

func toDomainEquipment(m equipmentModel) *domain.Equipment {
	return &domain.Equipment{
		ID:           m.ID,
		StudioID:     m.StudioID,
		RoomID:       m.RoomID,
		Name:         m.Name,
		Category:     m.Category,
		Brand:        m.Brand,
		Model:        m.Model,
		SerialNumber: m.SerialNumber,
		Status:       domain.EquipmentStatus(m.Status),
		UsageMinutes: m.UsageMinutes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainEquipmentAssignment(m equipmentAssignmentModel) *domain.EquipmentAssignment {
	return &domain.EquipmentAssignment{
		ID:                m.ID,
		Reference:         m.Reference,
		EquipmentID:       m.EquipmentID,
		CustodianID:       m.CustodianID,
		BookingID:         m.BookingID,
		CheckedOutAt:      m.CheckedOutAt,
		ExpectedReturnAt:  m.ExpectedReturnAt,
		CheckedInAt:       m.CheckedInAt,
		CheckoutCondition: m.CheckoutCondition,
		ReturnCondition:   m.ReturnCondition,
		DamageReported:    m.DamageReported,
		DamageDescription: m.DamageDescription,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func (r *EquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	m := equipmentModel{
		StudioID:     eq.StudioID,
		RoomID:       eq.RoomID,
		Name:         eq.Name,
		Category:     eq.Category,
		Brand:        eq.Brand,
		Model:        eq.Model,
		SerialNumber: eq.SerialNumber,
		Status:       string(eq.Status),
		UsageMinutes: eq.UsageMinutes,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*eq = *toDomainEquipment(m)
	return nil
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	var m equipmentModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return toDomainEquipment(m), nil
}

func (r *EquipmentRepository) ListByRoom(ctx context.Context, roomID int64) ([]domain.Equipment, error) {
	var models []equipmentModel
	tx := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("name ASC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Equipment, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainEquipment(m))
	}
	return out, nil
}

// UpdateStatusFrom flips equipment status only when the current status
// still matches. RowsAffected == 0 means a concurrent transition won; the
// caller treats that as a concurrency conflict.
func (r *EquipmentRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.EquipmentStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&equipmentModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *EquipmentRepository) AddUsage(ctx context.Context, id int64, minutes int64) error {
	return r.db.WithContext(ctx).Model(&equipmentModel{}).
		Where("id = ?", id).
		Update("usage_minutes", gorm.Expr("usage_minutes + ?", minutes)).Error
}

func (r *EquipmentRepository) CreateAssignment(ctx context.Context, a *domain.EquipmentAssignment) error {
	m := equipmentAssignmentModel{
		Reference:         a.Reference,
		EquipmentID:       a.EquipmentID,
		CustodianID:       a.CustodianID,
		BookingID:         a.BookingID,
		CheckedOutAt:      a.CheckedOutAt,
		ExpectedReturnAt:  a.ExpectedReturnAt,
		CheckedInAt:       a.CheckedInAt,
		CheckoutCondition: a.CheckoutCondition,
		Notes:             a.Notes,
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainEquipmentAssignment(m)
	return nil
}

func (r *EquipmentRepository) GetAssignmentByID(ctx context.Context, id int64) (*domain.EquipmentAssignment, error) {
	var m equipmentAssignmentModel
	if tx := r.db.WithContext(ctx).First(&m, id); tx.Error != nil {
		return nil, translate(tx.Error)
	}
	return toDomainEquipmentAssignment(m), nil
}

// FetchOpenByEquipment returns the open custody record for the equipment,
// or nil when the item is not out.
func (r *EquipmentRepository) FetchOpenByEquipment(ctx context.Context, equipmentID int64) (*domain.EquipmentAssignment, error) {
	var m equipmentAssignmentModel
	tx := r.db.WithContext(ctx).
		Where("equipment_id = ? AND checked_in_at IS NULL", equipmentID).
		First(&m)
	if tx.Error != nil {
		if translate(tx.Error) == ErrNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainEquipmentAssignment(m), nil
}

// CloseAssignment records the check-in, guarded on the record still being
// open so two concurrent check-ins cannot both succeed.
func (r *EquipmentRepository) CloseAssignment(ctx context.Context, id int64, checkedInAt time.Time, condition string, notes string, damageReported bool, damageDescription string) (bool, error) {
	updates := map[string]any{
		"checked_in_at":      checkedInAt,
		"return_condition":   condition,
		"damage_reported":    damageReported,
		"damage_description": damageDescription,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	tx := r.db.WithContext(ctx).Model(&equipmentAssignmentModel{}).
		Where("id = ? AND checked_in_at IS NULL", id).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListOverdue returns open assignments whose expected return has passed.
func (r *EquipmentRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.EquipmentAssignment, error) {
	var models []equipmentAssignmentModel
	tx := r.db.WithContext(ctx).
		Where("checked_in_at IS NULL AND expected_return_at < ?", now).
		Order("expected_return_at ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.EquipmentAssignment, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainEquipmentAssignment(m))
	}
	return out, nil
}
