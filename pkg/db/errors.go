package db

import (
	stdErrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/marcosalvarado/buildledger-backend/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Translate maps driver level failures onto the service error taxonomy.
func Translate(err error, resource string) error {
	if err == nil {
		return nil
	}

	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(errors.CodeNotFound, err, resource+" not found")
	}

	switch pgCode(err) {
	case pgUniqueViolation:
		return errors.Wrap(errors.CodeConflict, err, resource+" already exists")
	case pgForeignKeyViolation:
		return errors.Wrap(errors.CodeValidation, err, resource+" references a missing record")
	case pgCheckViolation:
		return errors.Wrap(errors.CodeValidation, err, resource+" violates a data constraint")
	}

	return errors.Wrap(errors.CodeInternal, err, resource+" query failed")
}

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
