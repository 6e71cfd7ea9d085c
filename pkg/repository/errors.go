package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres class 23 code raised by unique constraint violations.
const uniqueViolation = "23505"

// MapError converts driver-level failures into the caller's domain
// sentinels: an empty result set becomes notFoundErr, a unique violation
// becomes duplicateErr. Every other error passes through unchanged so its
// chain stays inspectable.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return duplicateErr
	}

	return err
}
