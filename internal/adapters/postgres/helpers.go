package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/splashngo/dashboard-service/internal/domain"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique-constraint
// violations.
const uniqueViolationCode = "23505"

// mapUniqueViolation converts a unique-constraint violation into the domain
// duplicate-key sentinel so callers can treat it as "already stored, skip".
// Other errors pass through unchanged.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return domain.WrapError(domain.ErrorCodeStorageDuplicate, "unique key already exists",
			domain.ErrDuplicateKey).
			WithDetail("constraint", pgErr.ConstraintName)
	}
	return err
}

// strOrNil converts an optional string to a driver-null-friendly value.
func strOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// emptyToNil stores empty strings as NULL.
func emptyToNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
