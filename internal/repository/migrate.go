package repository

import "gorm.io/gorm"

// AutoMigrate creates the schema for every model this package owns. On
// PostgreSQL it also installs the constraints that back the service-level
// race handling: the overlap exclusion on active resource assignments and
// the single-open-custody unique index.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&studioModel{},
		&roomModel{},
		&staffModel{},
		&equipmentModel{},
		&bookingModel{},
		&assignmentModel{},
		&equipmentAssignmentModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$ BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_resource_overlap'
			) THEN
				ALTER TABLE resource_assignments
				ADD CONSTRAINT idx_no_resource_overlap
				EXCLUDE USING gist (
					kind WITH =,
					resource_id WITH =,
					tsrange(start_time, end_time) WITH &&
				) WHERE (status NOT IN ('declined', 'released', 'closed'));
			END IF;
		END $$`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_single_open_custody
			ON equipment_assignments (equipment_id)
			WHERE checked_in_at IS NULL`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
