package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"campusevents/internal/domain"
)

// wrapErr adds operation context to a store error and maps well-known causes
// onto domain errors. conflict replaces domain.ErrConflict for unique
// violations when the caller has a more specific message; it may be nil.
func wrapErr(op string, err error, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgerrcode.UniqueViolation:
			if conflict == nil {
				conflict = domain.ErrConflict
			}
			return fmt.Errorf("%s: %w", op, conflict)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidReference)
		case pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// deleted reports whether an exec removed at least one row.
func deleted(op string, res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, wrapErr(op, err, nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr(op, err, nil)
	}
	return n > 0, nil
}

// updated maps zero affected rows to domain.ErrNotFound.
func updated(op string, res sql.Result, err error, conflict error) error {
	if err != nil {
		return wrapErr(op, err, conflict)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err, nil)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
