package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestHourlyRate(t *testing.T) {
	assertDecimal(t, "125", HourlyRate(decimal.NewFromInt(20000)))
}

func TestStatutoryContributions(t *testing.T) {
	tests := []struct {
		basic, sss, philHealth, pagIBIG string
	}{
		{"20000", "730", "600", "100"},
		{"8000", "292", "240", "80"},
		{"0", "0", "0", "0"},
		{"15550", "568", "467", "100"},
	}
	for _, tt := range tests {
		t.Run(tt.basic, func(t *testing.T) {
			c := StatutoryContributions(decimal.RequireFromString(tt.basic))
			assertDecimal(t, tt.sss, c.SSS)
			assertDecimal(t, tt.philHealth, c.PhilHealth)
			assertDecimal(t, tt.pagIBIG, c.PagIBIG)
			assert.True(t, c.WithholdingTax.IsZero())
		})
	}
}

func TestCalculator_Automatic(t *testing.T) {
	calc := NewCalculator(discardLogger())
	period := dateutil.Range{Start: dateutil.MustParse("2026-10-01"), End: dateutil.MustParse("2026-10-15")}

	rec := calc.Automatic(newEmployee("e1", "Ana Cruz", "20000"), attendance.Summary{
		EmployeeID:              "e1",
		Period:                  period,
		LateMinutes:             30,
		ApprovedOvertimeMinutes: 60,
	})

	assert.Equal(t, "e1", rec.EmployeeID)
	assert.Equal(t, period, rec.Period())
	assert.Equal(t, payroll.PayrollStatusFinalized, rec.Status)
	assert.Equal(t, payroll.ModeAutomatic, rec.Mode)
	assertDecimal(t, "156.25", rec.Overtime)
	assertDecimal(t, "62.5", rec.Deductions[payroll.DeductionLate])
	assertDecimal(t, "20156.25", rec.GrossPay)
	assertDecimal(t, "1492.5", rec.TotalDeductions())
	assertDecimal(t, "18663.75", rec.NetPay)
	assert.Equal(t, 30, rec.LateMinutes)
	assert.Equal(t, 60, rec.OvertimeMinutes)
	assert.Empty(t, rec.Warnings)
}

func TestCalculator_AutomaticNetAddsUpFromRoundedLineItems(t *testing.T) {
	rec := NewCalculator(discardLogger()).Automatic(newEmployee("e1", "Ana Cruz", "20001"), attendance.Summary{
		LateMinutes:             1,
		ApprovedOvertimeMinutes: 1,
	})

	assertDecimal(t, "2.6", rec.Overtime)
	assertDecimal(t, "2.08", rec.Deductions[payroll.DeductionLate])
	assertDecimal(t, "18571.52", rec.NetPay)
	assertDecimal(t, rec.GrossPay.Sub(rec.TotalDeductions()).String(), rec.NetPay)
}

func TestCalculator_AutomaticNoAttendance(t *testing.T) {
	rec := NewCalculator(discardLogger()).Automatic(newEmployee("e1", "Ana Cruz", "20000"), attendance.Summary{})

	assert.True(t, rec.Overtime.IsZero())
	assert.True(t, rec.Deductions[payroll.DeductionLate].IsZero())
	assertDecimal(t, "18570", rec.NetPay)
}

func TestCalculator_Manual(t *testing.T) {
	calc := NewCalculator(discardLogger())
	period := dateutil.Range{Start: dateutil.MustParse("2026-10-16"), End: dateutil.MustParse("2026-10-31")}

	rec := calc.Manual("e1", period, payroll.ManualInputs{
		Basic:      decimal.NewFromInt(10000),
		Allowances: decimal.NewFromInt(1500),
		Overtime:   decimal.RequireFromString("250.50"),
		Contributions: payroll.Contributions{
			SSS:            decimal.NewFromInt(365),
			PhilHealth:     decimal.NewFromInt(300),
			PagIBIG:        decimal.NewFromInt(100),
			WithholdingTax: decimal.RequireFromString("120.25"),
		},
	})

	assert.Equal(t, payroll.PayrollStatusDraft, rec.Status)
	assert.Equal(t, payroll.ModeManual, rec.Mode)
	assertDecimal(t, "11750.50", rec.GrossPay)
	assertDecimal(t, "10865.25", rec.NetPay)
	require.NotNil(t, rec.Deductions)
	assert.Empty(t, rec.Deductions)
}

func TestCalculator_NegativeNetPayIsKept(t *testing.T) {
	calc := NewCalculator(discardLogger())
	period := dateutil.Range{Start: dateutil.MustParse("2026-10-01"), End: dateutil.MustParse("2026-10-15")}

	rec := calc.Manual("e1", period, payroll.ManualInputs{
		Basic:         decimal.NewFromInt(1000),
		Contributions: payroll.Contributions{SSS: decimal.NewFromInt(2000)},
	})

	assertDecimal(t, "-1000", rec.NetPay)
	assert.Equal(t, []string{payroll.WarningNegativeNetPay}, rec.Warnings)
}
