package repositories

import (
	"context"
	"fmt"

	"github.com/poofware/coi-service/internal/utils"
)

const defaultMaxRetries = 3

/*
EntityWithVersion:

* `comparable`  → lets us use `==` to compare against the zero value
* the three concurrency methods
*/
type EntityWithVersion interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

// UpdateIfVersionFunc persists entity only if the stored row version still
// equals expectedVersion. It reports how many records were written (0 or 1).
type UpdateIfVersionFunc[T EntityWithVersion] func(
	ctx context.Context,
	entity T,
	expectedVersion int64,
) (int64, error)

type GetByIDFunc[T EntityWithVersion] func(
	ctx context.Context,
	id string,
) (T, error)

/*
WithRetry runs a read‑mutate‑update loop with optimistic locking.
*/
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	maxRetries int,
	id string,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}

		var zero T
		if current == zero {
			return utils.ErrNotFound
		}

		oldVersion := current.GetRowVersion()

		if err := mutate(current); err != nil {
			return err
		}

		n, err := updateIfVersion(ctx, current, oldVersion)
		if err != nil {
			return err
		}
		if n == 1 {
			return nil
		}
		// someone else wrote first; retry
	}
	return fmt.Errorf("too much contention updating %q: %w", id, utils.ErrRowVersionConflict)
}
