package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"libraryapi/internal/apperr"
	"libraryapi/internal/library"
)

// SQLSTATE codes for rejected writes.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
	sqlStateForeignKeyViolation = "23503"
	sqlStateStringTooLong       = "22001"
)

// translate maps driver errors to the errors the service understands.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return library.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var msg string
	switch pgErr.Code {
	case sqlStateUniqueViolation:
		msg = "value already exists"
	case sqlStateNotNullViolation:
		msg = fmt.Sprintf("%s is required", pgErr.ColumnName)
	case sqlStateCheckViolation:
		msg = "value must not be empty"
	case sqlStateForeignKeyViolation:
		msg = "referenced row does not exist"
	case sqlStateStringTooLong:
		msg = "value too long"
	default:
		return err
	}

	return apperr.ConstraintViolation(msg).
		WithDetails(map[string]string{
			"table":      pgErr.TableName,
			"constraint": pgErr.ConstraintName,
		}).
		WithCause(err)
}
