package payroll

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEmployee(id, name, basic string) employee.Employee {
	return employee.Employee{
		ID:               id,
		FullName:         name,
		EmploymentStatus: employee.EmploymentStatusActive,
		Salary:           employee.Salary{Basic: decimal.RequireFromString(basic)},
	}
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context, limit int) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if limit > 0 && len(out) == limit {
			break
		}
		if e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, err := f.GetByID(ctx, id); err == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePayrollRepo struct {
	mu      sync.Mutex
	records []payroll.PayrollRecord
}

func (f *fakePayrollRepo) indexOfPeriod(rec payroll.PayrollRecord) int {
	for i, r := range f.records {
		if r.EmployeeID == rec.EmployeeID && r.PeriodStart.Equal(rec.PeriodStart) && r.PeriodEnd.Equal(rec.PeriodEnd) {
			return i
		}
	}
	return -1
}

func (f *fakePayrollRepo) insert(rec payroll.PayrollRecord) payroll.PayrollRecord {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	rec.Warnings = nil
	f.records = append(f.records, rec)
	return rec
}

func (f *fakePayrollRepo) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexOfPeriod(rec) >= 0 {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
	}
	return f.insert(rec), nil
}

func (f *fakePayrollRepo) CreateIfAbsent(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOfPeriod(rec); i >= 0 {
		return f.records[i], false, nil
	}
	return f.insert(rec), true, nil
}

func (f *fakePayrollRepo) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, r := range f.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakePayrollRepo) Update(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == rec.ID {
			rec.Warnings = nil
			f.records[i] = rec
			return rec, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			r.Status = payroll.PayrollStatusPaid
			r.PaidAt = &paidAt
			f.records[i] = r
			return r, nil
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) Summary(ctx context.Context, filter payroll.PayrollFilter) (payroll.PayrollSummaryResponse, error) {
	records, _ := f.List(ctx, filter)
	var s payroll.PayrollSummaryResponse
	for _, r := range records {
		s.TotalNetPay = s.TotalNetPay.Add(r.NetPay)
		s.TotalSSS = s.TotalSSS.Add(r.Contributions.SSS)
		s.TotalPhilHealth = s.TotalPhilHealth.Add(r.Contributions.PhilHealth)
		s.TotalPagIBIG = s.TotalPagIBIG.Add(r.Contributions.PagIBIG)
		s.Count++
	}
	return s, nil
}

func (f *fakePayrollRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeSummarizer returns the configured summary for an employee, or an
// empty one for the requested period.
type fakeSummarizer struct {
	summaries map[string]attendance.Summary
	errs      map[string]error
	block     chan struct{}
	started   chan struct{}
	once      sync.Once
}

func (f *fakeSummarizer) Summarize(ctx context.Context, employeeID string, r dateutil.Range) (attendance.Summary, error) {
	if f.block != nil {
		f.once.Do(func() { close(f.started) })
		<-f.block
	}
	if err, ok := f.errs[employeeID]; ok {
		return attendance.Summary{}, err
	}
	s := f.summaries[employeeID]
	s.EmployeeID = employeeID
	s.Period = r
	return s, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}
