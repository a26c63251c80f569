package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Errors every store implementation reports, whatever sits underneath.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict covers broken references and transactions that lost a race.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means the store could not be reached at all.
	ErrUnavailable = errors.New("storage unavailable")
)

// MapPgError translates Postgres failures into the errors above.
// The constraint name is kept in the message; callers match with errors.Is.
// Anything unrecognised passes through untouched.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.Message)
	case pgerrcode.CannotConnectNow, pgerrcode.AdminShutdown, pgerrcode.TooManyConnections:
		return fmt.Errorf("%w: %s", ErrUnavailable, pgErr.Message)
	}
	return err
}
