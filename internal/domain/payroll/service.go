package payroll

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type PayrollService interface {
	CreateManual(ctx context.Context, req ManualPayrollRequest) (PayrollRecordResponse, error)
	// UpdateManual recomputes a manual record from new inputs; paid records are refused.
	UpdateManual(ctx context.Context, id string, req ManualPayrollRequest) (PayrollRecordResponse, error)
	MarkPaid(ctx context.Context, id string) (PayrollRecordResponse, error)
	Get(ctx context.Context, id string) (PayrollRecordResponse, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecordResponse, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, filter PayrollFilter) (PayrollSummaryResponse, error)

	// ComputeForEmployee previews the automatic computation without persisting it.
	ComputeForEmployee(ctx context.Context, employeeID string, period dateutil.Range) (PayrollRecordResponse, error)
}

type PaydayService interface {
	// RunPaydayIfDue generates finalized records for every active employee when
	// now falls on a payday. Re-running for the same day creates nothing new.
	RunPaydayIfDue(ctx context.Context, now time.Time) (RunResult, error)
}
