package postgres

import (
	"github.com/lsegpor/Forniture4U-sub000/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE classes a snapshot row can trip on.
const (
	sqlStateNotNullViolation = "23502"
	sqlStateCheckViolation   = "23514"
	sqlStateInvalidJSON      = "22P02"
)

// snapshotRejected reports whether the database refused the row itself,
// as opposed to failing to execute the statement.
func snapshotRejected(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case sqlStateNotNullViolation, sqlStateCheckViolation, sqlStateInvalidJSON:
		return true
	default:
		return false
	}
}
