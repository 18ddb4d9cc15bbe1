package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"studioops/internal/domain"
)

// ResourceCatalog answers existence checks across the three resource
// tables, so an unknown resource id surfaces as not-found instead of
// silently reporting "no conflicts".
type ResourceCatalog struct {
	db *gorm.DB
}

func NewResourceCatalog(db *gorm.DB) *ResourceCatalog {
	return &ResourceCatalog{db: db}
}

func (c *ResourceCatalog) Exists(ctx context.Context, kind domain.ResourceKind, id int64) (bool, error) {
	var table string
	switch kind {
	case domain.ResourceStaff:
		table = staffModel{}.TableName()
	case domain.ResourceEquipment:
		table = equipmentModel{}.TableName()
	case domain.ResourceRoom:
		table = roomModel{}.TableName()
	default:
		return false, fmt.Errorf("unknown resource kind %q", kind)
	}

	var count int64
	tx := c.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}
