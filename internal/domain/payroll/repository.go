package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create returns ErrPayrollRecordAlreadyExists if the employee already
	// has a record for the same period.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)

	// CreateIfAbsent inserts record unless one exists for the same employee and
	// period. created is false when the insert was skipped.
	CreateIfAbsent(ctx context.Context, record PayrollRecord) (saved PayrollRecord, created bool, err error)

	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, error)
	Update(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (PayrollRecord, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, filter PayrollFilter) (PayrollSummaryResponse, error)
}
