package postgres

import (
	"errors"
	"fmt"

	"marketplace-settlement/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// wrap annotates err with op and maps unique violations onto ports.ErrDuplicateKey.
func wrap(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ports.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
