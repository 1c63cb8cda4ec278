package leave

import (
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

const daysPerMonth = 30.0

// BalanceCalculator prorates annual entitlements by time employed in the
// current year and subtracts approved leave taken in that year.
type BalanceCalculator struct {
	loc *time.Location
}

func NewBalanceCalculator(loc *time.Location) *BalanceCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &BalanceCalculator{loc: loc}
}

// Compute returns emp's remaining leave as of now. leaves may contain other
// employees' or unapproved requests; they are ignored.
func (c *BalanceCalculator) Compute(emp employee.Employee, policy leave.Policy, leaves []leave.Request, now time.Time) leave.Balance {
	return c.ComputeWith(emp, policy, leave.NewLedger(leaves), now)
}

func (c *BalanceCalculator) ComputeWith(emp employee.Employee, policy leave.Policy, ledger leave.Ledger, now time.Time) leave.Balance {
	balance := leave.Balance{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
	}
	if balance.EmployeeName == "" {
		balance.EmployeeName = employee.UnknownName
	}

	today := dateutil.In(now, c.loc)
	year := dateutil.Year(today.Year())

	if emp.HireDate != nil && emp.HireDate.After(today) {
		return balance
	}

	entitlementStart := year.Start
	if emp.HireDate != nil {
		entitlementStart = dateutil.Max(*emp.HireDate, year.Start)
	}
	daysEmployed := entitlementStart.DaysUntil(today) + 1
	months := math.Min(12, float64(daysEmployed)/daysPerMonth)

	remaining := func(t leave.Type) float64 {
		entitlement := policy.Annual(t) * months / 12
		used := float64(ledger.OverlapDays(emp.ID, t, year))
		return math.Max(0, roundTenth(entitlement-used))
	}

	balance.VacationLeave = remaining(leave.TypeVacation)
	balance.SickLeave = remaining(leave.TypeSick)
	balance.EmergencyLeave = remaining(leave.TypeUnpaid)
	return balance
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
