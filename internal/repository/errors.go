package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned for any missing record.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsOverlapViolation reports whether err is the database rejecting a
// committed overlap: either the no-overbooking exclusion constraint
// (23P01) or the single-open-custody unique index (23505). This is the
// backstop for races the advisory guard did not cover, e.g. a second API
// instance running without a shared locker.
func IsOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "23P01":
		return true
	case "23505":
		return pgErr.ConstraintName == "idx_no_resource_overlap" ||
			pgErr.ConstraintName == "idx_single_open_custody"
	}
	return false
}
