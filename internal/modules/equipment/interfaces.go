package equipment

import (
	"context"
	"time"

	"studioops/internal/domain"
)

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.EquipmentStatus) (bool, error)
	AddUsage(ctx context.Context, id int64, minutes int64) error

	CreateAssignment(ctx context.Context, a *domain.EquipmentAssignment) error
	GetAssignmentByID(ctx context.Context, id int64) (*domain.EquipmentAssignment, error)
	FetchOpenByEquipment(ctx context.Context, equipmentID int64) (*domain.EquipmentAssignment, error)
	CloseAssignment(ctx context.Context, id int64, checkedInAt time.Time, condition, notes string, damageReported bool, damageDescription string) (bool, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.EquipmentAssignment, error)
}

type NotificationSender interface {
	NotifyMaintenanceNeeded(ctx context.Context, equipmentID int64, reason string) error
}
