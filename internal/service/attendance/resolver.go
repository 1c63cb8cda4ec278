package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Fixed company schedule, in the resolver's location.
const (
	workStartHour  = 8
	lunchStartHour = 12
	lunchEndHour   = 13
	lunchMinutes   = 60
)

const displayTimeLayout = "03:04 PM"

// Resolver derives a day's attendance status from raw clocks, approved
// leaves and the holiday calendar. It holds no state besides the location
// and is safe for concurrent use.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve is ResolveWith for callers holding plain slices. leaves may contain
// requests of other employees or in any status; only approved ones of the
// record's employee count.
func (r *Resolver) Resolve(rec attendance.Record, leaves []leave.Request, holidays []holiday.Holiday) attendance.View {
	return r.ResolveWith(rec, leave.NewLedger(leaves), holiday.NewCalendar(holidays), nil)
}

// ResolveWith resolves rec against a prebuilt ledger and calendar. names may
// be nil; unresolved names display as "Unknown".
func (r *Resolver) ResolveWith(rec attendance.Record, ledger leave.Ledger, cal holiday.Calendar, names employee.NameIndex) attendance.View {
	view := attendance.View{
		RecordID:         rec.ID,
		EmployeeID:       rec.EmployeeID,
		EmployeeName:     names.Name(rec.EmployeeID),
		Date:             rec.Date,
		LateMinutes:      r.LateMinutes(rec),
		OvertimeMinutes:  rec.OvertimeMinutes,
		OvertimeApproved: rec.OvertimeApproved,
		Notes:            rec.Notes,
		TimeIn:           r.display(rec.ClockIn),
		TimeOut:          r.display(rec.ClockOut),
		HoursWorked:      hoursWorked(r.WorkedMinutes(rec)),
	}

	onLeave := ledger.IsOnLeave(rec.EmployeeID, rec.Date)
	isHoliday := !onLeave && cal.IsHoliday(rec.Date)

	switch {
	case onLeave:
		view.Status = attendance.StatusOnLeave
		view.TimeIn = attendance.NoTime
		view.TimeOut = attendance.NoTime
		view.HoursWorked = hoursWorked(0)
	case isHoliday:
		view.Status = attendance.StatusHoliday
	case view.LateMinutes > 0:
		view.Status = attendance.StatusLate
	case rec.ClockIn == nil:
		view.Status = attendance.StatusAbsent
	default:
		view.Status = attendance.StatusPresent
	}

	return view
}

// LateMinutes is how far the clock-in is past 08:00 on the record's day.
// Seconds are truncated.
func (r *Resolver) LateMinutes(rec attendance.Record) int {
	if rec.ClockIn == nil {
		return 0
	}
	start := rec.Date.At(workStartHour, 0, r.loc)
	late := int(rec.ClockIn.Sub(start) / time.Minute)
	if late < 0 {
		return 0
	}
	return late
}

// WorkedMinutes is the clocked span minus the lunch hour when the span
// covers it, never negative.
func (r *Resolver) WorkedMinutes(rec attendance.Record) int {
	if rec.ClockIn == nil || rec.ClockOut == nil {
		return 0
	}
	minutes := int(rec.ClockOut.Sub(*rec.ClockIn) / time.Minute)

	in := rec.ClockIn.In(r.loc)
	out := rec.ClockOut.In(r.loc)
	lunchStart := time.Date(in.Year(), in.Month(), in.Day(), lunchStartHour, 0, 0, 0, r.loc)
	lunchEnd := time.Date(in.Year(), in.Month(), in.Day(), lunchEndHour, 0, 0, 0, r.loc)
	if in.Before(lunchStart) && out.After(lunchEnd) {
		minutes -= lunchMinutes
	}

	if minutes < 0 {
		return 0
	}
	return minutes
}

func (r *Resolver) display(t *time.Time) string {
	if t == nil {
		return attendance.NoTime
	}
	return t.In(r.loc).Format(displayTimeLayout)
}

func hoursWorked(minutes int) attendance.HoursWorked {
	return attendance.HoursWorked{
		Hours:   minutes / 60,
		Minutes: minutes % 60,
		Decimal: decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2),
	}
}
