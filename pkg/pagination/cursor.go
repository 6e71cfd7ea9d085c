package pagination

import (
	"context"

	"github.com/google/uuid"
)

// PageFunc fetches one keyset page: the rows strictly after the cursor,
// ordered ascending by ID, at most limit rows.
type PageFunc[T any] func(ctx context.Context, after uuid.UUID, limit int) ([]T, error)

// KeyFunc extracts the keyset cursor (the row's ID) from an item.
type KeyFunc[T any] func(T) uuid.UUID

// EachPage walks an entire table through keyset pages, invoking visit for
// every item. The scan stops on the first visit or fetch error, or when the
// context is cancelled, so long backfills remain interruptible.
func EachPage[T any](
	ctx context.Context,
	limit int,
	fetch PageFunc[T],
	key KeyFunc[T],
	visit func(T) error,
) error {
	var cursor uuid.UUID

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := fetch(ctx, cursor, limit)
		if err != nil {
			return err
		}

		for _, item := range page {
			if err := visit(item); err != nil {
				return err
			}
			cursor = key(item)
		}

		if len(page) < limit {
			return nil
		}
	}
}

// Collect walks keyset pages and accumulates every item into a slice.
func Collect[T any](
	ctx context.Context,
	limit int,
	fetch PageFunc[T],
	key KeyFunc[T],
) ([]T, error) {
	items := make([]T, 0)
	err := EachPage(ctx, limit, fetch, key, func(item T) error {
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
