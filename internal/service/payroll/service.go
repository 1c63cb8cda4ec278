package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payroll.PayrollRepository
	employee.EmployeeRepository
	summarizer AttendanceSummarizer
	calculator *Calculator
	tx         database.Transactor
	loc        *time.Location
	now        func() time.Time
}

// CreateManual implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateManual(ctx context.Context, req payroll.ManualPayrollRequest) (payroll.PayrollRecordResponse, error) {
	inputs, period, err := req.Parse()
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	if period == nil {
		p := HalfMonth(dateutil.In(s.now(), s.loc))
		period = &p
	}

	rec := s.calculator.Manual(emp.ID, *period, inputs)
	rec.Notes = req.Notes

	created, err := s.PayrollRepository.Create(ctx, rec)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	created.Warnings = rec.Warnings

	return withName(created, emp.FullName), nil
}

// UpdateManual implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateManual(ctx context.Context, id string, req payroll.ManualPayrollRequest) (payroll.PayrollRecordResponse, error) {
	inputs, period, err := req.Parse()
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}

	var updated payroll.PayrollRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.PayrollRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsPaid() {
			return payroll.ErrPayrollRecordAlreadyPaid
		}
		if existing.Mode != payroll.ModeManual {
			return payroll.ErrNotManualRecord
		}
		if req.EmployeeID != existing.EmployeeID {
			return validator.ValidationErrors{{Field: "employee_id", Message: "employee_id cannot be changed"}}
		}

		target := existing.Period()
		if period != nil {
			target = *period
		}

		rec := s.calculator.Manual(existing.EmployeeID, target, inputs)
		rec.ID = existing.ID
		rec.Notes = req.Notes
		rec.CreatedAt = existing.CreatedAt

		saved, err := s.PayrollRepository.Update(ctx, rec)
		if err != nil {
			return err
		}
		saved.Warnings = rec.Warnings
		updated = saved
		return nil
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return s.respond(ctx, updated), nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}

	existing, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if existing.IsPaid() {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	paid, err := s.PayrollRepository.MarkPaid(ctx, id, s.now())
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return s.respond(ctx, paid), nil
}

// Get implements payroll.PayrollService.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}

	rec, err := s.PayrollRepository.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return s.respond(ctx, rec), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.PayrollRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}

	employees, err := s.EmployeeRepository.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	names := employee.NewNameIndex(employees)

	resp := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, withName(r, names.Name(r.EmployeeID)))
	}
	return resp, nil
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return payroll.ErrPayrollRecordNotFound
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.PayrollRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.IsPaid() {
			return payroll.ErrCannotDeletePaidRecord
		}
		return s.PayrollRepository.Delete(ctx, id)
	})
}

// Summary implements payroll.PayrollService.
func (s *PayrollServiceImpl) Summary(ctx context.Context, filter payroll.PayrollFilter) (payroll.PayrollSummaryResponse, error) {
	summary, err := s.PayrollRepository.Summary(ctx, filter)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to summarize payroll: %w", err)
	}
	return summary, nil
}

// ComputeForEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) ComputeForEmployee(ctx context.Context, employeeID string, period dateutil.Range) (payroll.PayrollRecordResponse, error) {
	if period.Start.IsZero() || period.End.Before(period.Start) {
		return payroll.PayrollRecordResponse{}, payroll.ErrInvalidPeriod
	}
	if !validator.IsValidUUID(employeeID) {
		return payroll.PayrollRecordResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !emp.IsActive() {
		return payroll.PayrollRecordResponse{}, employee.ErrEmployeeInactive
	}

	summary, err := s.summarizer.Summarize(ctx, emp.ID, period)
	if err != nil {
		return payroll.PayrollRecordResponse{}, fmt.Errorf("failed to summarize attendance: %w", err)
	}

	return withName(s.calculator.Automatic(emp, summary), emp.FullName), nil
}

// respond attaches the employee name, falling back to the unknown label.
func (s *PayrollServiceImpl) respond(ctx context.Context, rec payroll.PayrollRecord) payroll.PayrollRecordResponse {
	if rec.EmployeeName != nil {
		return payroll.ToRecordResponse(rec)
	}
	emp, err := s.EmployeeRepository.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		return payroll.ToRecordResponse(rec)
	}
	return withName(rec, emp.FullName)
}

func withName(rec payroll.PayrollRecord, name string) payroll.PayrollRecordResponse {
	if name == "" {
		name = employee.UnknownName
	}
	rec.EmployeeName = &name
	return payroll.ToRecordResponse(rec)
}

func NewPayrollService(
	payrollRepository payroll.PayrollRepository,
	employeeRepository employee.EmployeeRepository,
	summarizer AttendanceSummarizer,
	calculator *Calculator,
	tx database.Transactor,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		PayrollRepository:  payrollRepository,
		EmployeeRepository: employeeRepository,
		summarizer:         summarizer,
		calculator:         calculator,
		tx:                 tx,
		loc:                loc,
		now:                time.Now,
	}
}
