package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Record, error)

	// ListAll returns every record, newest date first.
	ListAll(ctx context.Context) ([]Record, error)

	// ListInRange returns records of all employees within r, newest date first.
	ListInRange(ctx context.Context, r dateutil.Range) ([]Record, error)

	ListForEmployeeInRange(ctx context.Context, employeeID string, r dateutil.Range) ([]Record, error)

	// Upsert inserts the record or replaces the clock data of the existing
	// record for the same employee and date.
	Upsert(ctx context.Context, rec Record) (Record, error)

	Update(ctx context.Context, rec Record) (Record, error)

	Delete(ctx context.Context, id string) error
}
