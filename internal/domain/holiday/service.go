package holiday

import "context"

type HolidayService interface {
	List(ctx context.Context) ([]HolidayResponse, error)
	// Create stores an operator entered holiday as a manual override.
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	// Import upserts seed entries, leaving manual overrides untouched.
	Import(ctx context.Context, holidays []Holiday) (ImportResult, error)
}
