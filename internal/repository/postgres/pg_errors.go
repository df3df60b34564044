package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/romankud/kinotix/internal/repository"
)

// wrapDBErr maps common database errors to repository-level sentinels and
// wraps them with the operation name.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s:%w", op, repository.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
	}

	return fmt.Errorf("%s:%w", op, err)
}

// IsRetryable reports whether the transaction failed on a serialization
// conflict or deadlock and can be retried by the caller.
func IsRetryable(err error) bool {
	var pge *pgconn.PgError

	if errors.As(err, &pge) {
		switch pge.Code {
		case "40001", "40P01":
			return true
		}
	}

	return false
}
