package services

import (
	"context"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

// checkRef loads id through get and reports missing when it does not exist.
func checkRef[T any](ctx context.Context, get func(context.Context, string) (T, error), id string, missing error) error {
	if _, err := get(ctx, id); err != nil {
		return refErr(err, missing)
	}
	return nil
}

// refErr maps domain.ErrNotFound from a referenced lookup onto missing.
func refErr(err, missing error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return missing
	}
	return err
}

// notFoundUnless maps a false delete result onto domain.ErrNotFound.
func notFoundUnless(ok bool, err error, what, id string) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
