package payroll

import (
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Flat statutory approximations; not the real bracket tables.
var (
	monthlyHours   = decimal.NewFromInt(160)
	monthlyMinutes = monthlyHours.Mul(decimal.NewFromInt(60))
	overtimeRate   = decimal.RequireFromString("1.25")
	sssRate        = decimal.RequireFromString("0.0365")
	philHealthRate = decimal.RequireFromString("0.03")
	pagIBIGRate    = decimal.RequireFromString("0.01")
	pagIBIGCap     = decimal.NewFromInt(100)
)

const (
	moneyPlaces        = 2
	contributionPlaces = 0
)

// Calculator computes payroll records. It never touches storage; the only
// side effect is a warning log for negative net pay.
type Calculator struct {
	logger *slog.Logger
}

func NewCalculator(logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger}
}

// HourlyRate is basic / 160.
func HourlyRate(basic decimal.Decimal) decimal.Decimal {
	return basic.Div(monthlyHours)
}

// StatutoryContributions derives SSS, PhilHealth and Pag-IBIG from the
// monthly basic salary. Withholding tax is not computed automatically.
func StatutoryContributions(basic decimal.Decimal) payroll.Contributions {
	return payroll.Contributions{
		SSS:            basic.Mul(sssRate).Round(contributionPlaces),
		PhilHealth:     basic.Mul(philHealthRate).Round(contributionPlaces),
		PagIBIG:        decimal.Min(pagIBIGCap, basic.Mul(pagIBIGRate)).Round(contributionPlaces),
		WithholdingTax: decimal.Zero,
	}
}

// Automatic computes a finalized record from the employee's salary and the
// attendance summary of the period.
func (c *Calculator) Automatic(emp employee.Employee, summary attendance.Summary) payroll.PayrollRecord {
	basic := emp.Salary.Basic

	// minutes * hourly / 60, multiplied out before dividing. Both line items
	// are stored in cents, so net pay is settled from the rounded amounts.
	overtimePay := decimal.NewFromInt(int64(summary.ApprovedOvertimeMinutes)).
		Mul(basic).Mul(overtimeRate).
		Div(monthlyMinutes).
		Round(moneyPlaces)
	lateDeduction := decimal.NewFromInt(int64(summary.LateMinutes)).
		Mul(basic).
		Div(monthlyMinutes).
		Round(moneyPlaces)

	rec := payroll.PayrollRecord{
		EmployeeID:      emp.ID,
		PeriodStart:     summary.Period.Start,
		PeriodEnd:       summary.Period.End,
		Basic:           basic,
		Allowances:      decimal.Zero,
		Overtime:        overtimePay,
		Deductions:      map[string]decimal.Decimal{payroll.DeductionLate: lateDeduction},
		Contributions:   StatutoryContributions(basic),
		GrossPay:        basic.Add(overtimePay),
		LateMinutes:     summary.LateMinutes,
		OvertimeMinutes: summary.ApprovedOvertimeMinutes,
		Status:          payroll.PayrollStatusFinalized,
		Mode:            payroll.ModeAutomatic,
	}
	c.settle(&rec)
	return rec
}

// Manual computes a draft record from operator supplied amounts.
func (c *Calculator) Manual(employeeID string, period dateutil.Range, in payroll.ManualInputs) payroll.PayrollRecord {
	rec := payroll.PayrollRecord{
		EmployeeID:    employeeID,
		PeriodStart:   period.Start,
		PeriodEnd:     period.End,
		Basic:         in.Basic,
		Allowances:    in.Allowances,
		Overtime:      in.Overtime,
		Deductions:    map[string]decimal.Decimal{},
		Contributions: in.Contributions,
		GrossPay:      in.Basic.Add(in.Allowances).Add(in.Overtime),
		Status:        payroll.PayrollStatusDraft,
		Mode:          payroll.ModeManual,
	}
	c.settle(&rec)
	return rec
}

func (c *Calculator) settle(rec *payroll.PayrollRecord) {
	rec.Settle()
	if rec.NetPay.IsNegative() {
		c.logger.Warn("Payroll net pay is negative",
			"employee_id", rec.EmployeeID,
			"period_start", rec.PeriodStart.String(),
			"period_end", rec.PeriodEnd.String(),
			"mode", rec.Mode,
			"net_pay", rec.NetPay.String(),
		)
	}
}
