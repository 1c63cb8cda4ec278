package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type AttendanceService interface {
	// ListViews resolves stored records against current leave and holiday data.
	ListViews(ctx context.Context, filter Filter) ([]View, error)

	// Summarize aggregates one employee's resolved attendance over r.
	Summarize(ctx context.Context, employeeID string, r dateutil.Range) (Summary, error)

	// Record creates or replaces the entry for (employee, date).
	Record(ctx context.Context, req RecordRequest) (View, error)

	// Correct edits an existing entry.
	Correct(ctx context.Context, id string, req RecordRequest) (View, error)

	Delete(ctx context.Context, id string) error
}
