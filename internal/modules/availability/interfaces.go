package availability

import (
	"context"

	"studioops/internal/domain"
)

// AssignmentReader is the persistence contract for scheduled assignments.
type AssignmentReader interface {
	FetchActive(ctx context.Context, studioID int64, kind domain.ResourceKind, resourceID int64) ([]domain.ResourceAssignment, error)
}

// CustodyReader exposes open equipment custody, which occupies an
// open-ended window until the item is checked back in.
type CustodyReader interface {
	FetchOpenByEquipment(ctx context.Context, equipmentID int64) (*domain.EquipmentAssignment, error)
}

// ResourceCatalog answers whether a resource id exists at all.
type ResourceCatalog interface {
	Exists(ctx context.Context, kind domain.ResourceKind, id int64) (bool, error)
}
