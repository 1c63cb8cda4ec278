package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== MANUAL PAYROLL DTOs ==========

// ManualPayrollRequest carries operator entered amounts as strings so that
// malformed numbers are reported instead of silently read as zero.
type ManualPayrollRequest struct {
	EmployeeID     string  `json:"employee_id"`
	PeriodStart    string  `json:"period_start,omitempty"`
	PeriodEnd      string  `json:"period_end,omitempty"`
	BasicSalary    string  `json:"basic_salary"`
	Allowances     string  `json:"allowances"`
	Overtime       string  `json:"overtime"`
	SSS            string  `json:"sss"`
	PhilHealth     string  `json:"philhealth"`
	PagIBIG        string  `json:"pagibig"`
	WithholdingTax string  `json:"withholding_tax"`
	Notes          *string `json:"notes,omitempty"`
}

// ManualInputs are the parsed amounts of a ManualPayrollRequest.
type ManualInputs struct {
	Basic         decimal.Decimal
	Allowances    decimal.Decimal
	Overtime      decimal.Decimal
	Contributions Contributions
}

// Parse validates the request and returns its amounts and, when given, the
// explicit period. A nil period means the caller picks the default.
func (r *ManualPayrollRequest) Parse() (ManualInputs, *dateutil.Range, error) {
	var (
		errs   validator.ValidationErrors
		in     ManualInputs
		period *dateutil.Range
	)

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	} else {
		validator.IDField(&errs, "employee_id", r.EmployeeID)
	}

	in.Basic = validator.MoneyField(&errs, "basic_salary", r.BasicSalary)
	in.Allowances = validator.MoneyField(&errs, "allowances", r.Allowances)
	in.Overtime = validator.MoneyField(&errs, "overtime", r.Overtime)
	in.Contributions = Contributions{
		SSS:            validator.MoneyField(&errs, "sss", r.SSS),
		PhilHealth:     validator.MoneyField(&errs, "philhealth", r.PhilHealth),
		PagIBIG:        validator.MoneyField(&errs, "pagibig", r.PagIBIG),
		WithholdingTax: validator.MoneyField(&errs, "withholding_tax", r.WithholdingTax),
	}

	switch {
	case r.PeriodStart == "" && r.PeriodEnd == "":
	case r.PeriodStart == "" || r.PeriodEnd == "":
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period_start and period_end must be given together"})
	default:
		rng, err := dateutil.ParseRange(r.PeriodStart, r.PeriodEnd)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "period", Message: err.Error()})
		} else {
			period = &rng
		}
	}

	if len(errs) > 0 {
		return ManualInputs{}, nil, errs
	}
	return in, period, nil
}

// ========== RECORD DTOs ==========

type PayrollRecordResponse struct {
	ID              string                     `json:"id"`
	EmployeeID      string                     `json:"employee_id"`
	EmployeeName    string                     `json:"employee_name"`
	PeriodStart     dateutil.Date              `json:"period_start"`
	PeriodEnd       dateutil.Date              `json:"period_end"`
	BasicSalary     decimal.Decimal            `json:"basic_salary"`
	Allowances      decimal.Decimal            `json:"allowances"`
	Overtime        decimal.Decimal            `json:"overtime"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	Contributions   Contributions              `json:"contributions"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	GrossPay        decimal.Decimal            `json:"gross_pay"`
	NetPay          decimal.Decimal            `json:"net_pay"`
	LateMinutes     int                        `json:"late_minutes"`
	OvertimeMinutes int                        `json:"overtime_minutes"`
	Status          PayrollStatus              `json:"status"`
	Mode            Mode                       `json:"mode"`
	PaidAt          *string                    `json:"paid_at,omitempty"`
	Notes           *string                    `json:"notes,omitempty"`
	Warnings        []string                   `json:"warnings,omitempty"`
	CreatedAt       string                     `json:"created_at,omitempty"`
}

func ToRecordResponse(r PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    employee.UnknownName,
		PeriodStart:     r.PeriodStart,
		PeriodEnd:       r.PeriodEnd,
		BasicSalary:     r.Basic,
		Allowances:      r.Allowances,
		Overtime:        r.Overtime,
		Deductions:      r.Deductions,
		Contributions:   r.Contributions,
		TotalDeductions: r.TotalDeductions(),
		GrossPay:        r.GrossPay,
		NetPay:          r.NetPay,
		LateMinutes:     r.LateMinutes,
		OvertimeMinutes: r.OvertimeMinutes,
		Status:          r.Status,
		Mode:            r.Mode,
		Notes:           r.Notes,
		Warnings:        r.Warnings,
	}
	if r.EmployeeName != nil {
		resp.EmployeeName = *r.EmployeeName
	}
	if resp.Deductions == nil {
		resp.Deductions = map[string]decimal.Decimal{}
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	if !r.CreatedAt.IsZero() {
		resp.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

type PayrollFilter struct {
	EmployeeID  *string
	Status      *PayrollStatus
	PeriodStart *dateutil.Date
	PeriodEnd   *dateutil.Date
}

// ParseFilter builds a PayrollFilter from query string values.
func ParseFilter(employeeID, status, periodStart, periodEnd string) (PayrollFilter, error) {
	var (
		f    PayrollFilter
		errs validator.ValidationErrors
	)

	if !validator.IsEmpty(employeeID) {
		validator.IDField(&errs, "employee_id", employeeID)
		f.EmployeeID = &employeeID
	}
	if status != "" {
		s := PayrollStatus(status)
		if !s.Valid() {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of draft, finalized, paid"})
		} else {
			f.Status = &s
		}
	}
	if periodStart != "" {
		d, err := dateutil.Parse(periodStart)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "period_start", Message: "period_start must be in YYYY-MM-DD format"})
		} else {
			f.PeriodStart = &d
		}
	}
	if periodEnd != "" {
		d, err := dateutil.Parse(periodEnd)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "period_end must be in YYYY-MM-DD format"})
		} else {
			f.PeriodEnd = &d
		}
	}

	if len(errs) > 0 {
		return PayrollFilter{}, errs
	}
	return f, nil
}

type PayrollSummaryResponse struct {
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	TotalSSS        decimal.Decimal `json:"total_sss"`
	TotalPhilHealth decimal.Decimal `json:"total_philhealth"`
	TotalPagIBIG    decimal.Decimal `json:"total_pagibig"`
	Count           int             `json:"count"`
}

// ========== PAYDAY DTOs ==========

// EmployeeFailure is one employee skipped by a payday run because of an error.
type EmployeeFailure struct {
	EmployeeID string
	Err        error
}

func (f EmployeeFailure) Error() string {
	return "employee " + f.EmployeeID + ": " + f.Err.Error()
}

func (f EmployeeFailure) Unwrap() error {
	return f.Err
}

// RunResult describes one payday evaluation. Due is false when the day is
// not a payday, in which case nothing else is set.
type RunResult struct {
	RunID    string
	Due      bool
	PayDate  dateutil.Date
	Period   dateutil.Range
	Created  []PayrollRecord
	Skipped  int
	Failures []EmployeeFailure
}

type PaydayRunResponse struct {
	RunID    string                  `json:"run_id,omitempty"`
	Due      bool                    `json:"due"`
	PayDate  *dateutil.Date          `json:"pay_date,omitempty"`
	Period   *dateutil.Range         `json:"period,omitempty"`
	Created  []PayrollRecordResponse `json:"created"`
	Skipped  int                     `json:"skipped"`
	Failures []PaydayFailureResponse `json:"failures,omitempty"`
}

type PaydayFailureResponse struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

func ToPaydayRunResponse(r RunResult) PaydayRunResponse {
	resp := PaydayRunResponse{
		RunID:   r.RunID,
		Due:     r.Due,
		Created: make([]PayrollRecordResponse, 0, len(r.Created)),
		Skipped: r.Skipped,
	}
	if r.Due {
		payDate, period := r.PayDate, r.Period
		resp.PayDate = &payDate
		resp.Period = &period
	}
	for _, rec := range r.Created {
		resp.Created = append(resp.Created, ToRecordResponse(rec))
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, PaydayFailureResponse{EmployeeID: f.EmployeeID, Error: f.Err.Error()})
	}
	return resp
}
