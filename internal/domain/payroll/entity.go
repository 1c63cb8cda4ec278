package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "draft"
	PayrollStatusFinalized PayrollStatus = "finalized"
	PayrollStatusPaid      PayrollStatus = "paid"
)

func (s PayrollStatus) Valid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusFinalized, PayrollStatusPaid:
		return true
	}
	return false
}

// Mode records how a payroll record was computed.
type Mode string

const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// Deduction keys
const (
	DeductionLate = "late"
)

const WarningNegativeNetPay = "net pay is negative"

// Contributions are the statutory amounts withheld from gross pay.
type Contributions struct {
	SSS            decimal.Decimal `json:"sss"`
	PhilHealth     decimal.Decimal `json:"philhealth"`
	PagIBIG        decimal.Decimal `json:"pagibig"`
	WithholdingTax decimal.Decimal `json:"withholding_tax"`
}

func (c Contributions) Total() decimal.Decimal {
	return c.SSS.Add(c.PhilHealth).Add(c.PagIBIG).Add(c.WithholdingTax)
}

// PayrollRecord is the pay of one employee for one period, unique per
// (EmployeeID, PeriodStart, PeriodEnd).
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	PeriodStart     dateutil.Date
	PeriodEnd       dateutil.Date
	Basic           decimal.Decimal
	Allowances      decimal.Decimal
	Overtime        decimal.Decimal
	Deductions      map[string]decimal.Decimal
	Contributions   Contributions
	GrossPay        decimal.Decimal
	NetPay          decimal.Decimal
	LateMinutes     int
	OvertimeMinutes int
	Status          PayrollStatus
	Mode            Mode
	PaidAt          *time.Time
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Not persisted
	Warnings []string

	// Joined fields
	EmployeeName *string
}

func (r PayrollRecord) Period() dateutil.Range {
	return dateutil.Range{Start: r.PeriodStart, End: r.PeriodEnd}
}

func (r PayrollRecord) IsPaid() bool {
	return r.Status == PayrollStatusPaid
}

// TotalDeductions sums the deduction map and all contributions.
func (r PayrollRecord) TotalDeductions() decimal.Decimal {
	total := r.Contributions.Total()
	for _, d := range r.Deductions {
		total = total.Add(d)
	}
	return total
}

// Settle derives NetPay from GrossPay and the current deductions and flags a
// negative result. It must run after every change to amounts.
func (r *PayrollRecord) Settle() {
	r.NetPay = r.GrossPay.Sub(r.TotalDeductions())
	r.Warnings = nil
	if r.NetPay.IsNegative() {
		r.Warnings = append(r.Warnings, WarningNegativeNetPay)
	}
}
