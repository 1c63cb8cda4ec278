package holiday

import "context"

type HolidayRepository interface {
	// ListAll returns every holiday ordered by date.
	ListAll(ctx context.Context) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	// Upsert inserts h or updates the entry with the same date and name,
	// unless that entry is a manual override. It reports whether a row was written.
	Upsert(ctx context.Context, h Holiday) (bool, error)
	Delete(ctx context.Context, id string) error
}
