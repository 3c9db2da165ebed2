package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
)

const (
	pgUniqueViolation = "23505"
	usersEmailKey     = "users_email_key"
)

// MapError classifies store failures with a shared error code. Errors that
// already carry a code pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *shared.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return shared.Wrap(shared.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return shared.Wrap(shared.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case pgUniqueViolation:
			return shared.Wrap(shared.CodeConflict, op, err)
		case "40001", "40P01", "55P03":
			return shared.Wrap(shared.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}
	return shared.Wrap(shared.CodeInternal, op, err)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
