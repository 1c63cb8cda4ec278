package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Record is one employee's raw clock data for a day. Status and lateness are
// never stored; they are resolved at read time.
type Record struct {
	ID               string
	EmployeeID       string
	Date             dateutil.Date
	ClockIn          *time.Time
	ClockOut         *time.Time
	OvertimeMinutes  int
	OvertimeApproved bool
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Status string

const (
	StatusOnLeave Status = "On Leave"
	StatusHoliday Status = "Holiday"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
	StatusPresent Status = "Present"
)

// NoTime is displayed in place of suppressed or missing clock times.
const NoTime = "-"

type HoursWorked struct {
	Hours   int             `json:"hours"`
	Minutes int             `json:"minutes"`
	Decimal decimal.Decimal `json:"decimal"`
}

// View is the resolved read model of a Record.
type View struct {
	RecordID         string        `json:"id"`
	EmployeeID       string        `json:"employee_id"`
	EmployeeName     string        `json:"employee_name"`
	Date             dateutil.Date `json:"date"`
	Status           Status        `json:"status"`
	HoursWorked      HoursWorked   `json:"hours_worked"`
	LateMinutes      int           `json:"late_minutes"`
	OvertimeMinutes  int           `json:"overtime_minutes"`
	OvertimeApproved bool          `json:"overtime_approved"`
	TimeIn           string        `json:"time_in"`
	TimeOut          string        `json:"time_out"`
	Notes            string        `json:"notes,omitempty"`
}

// Summary aggregates resolved views over a period.
type Summary struct {
	EmployeeID              string          `json:"employee_id"`
	Period                  dateutil.Range  `json:"period"`
	PresentDays             int             `json:"present_days"`
	LateDays                int             `json:"late_days"`
	AbsentDays              int             `json:"absent_days"`
	LeaveDays               int             `json:"leave_days"`
	HolidayDays             int             `json:"holiday_days"`
	LateMinutes             int             `json:"late_minutes"`
	ApprovedOvertimeMinutes int             `json:"approved_overtime_minutes"`
	HoursWorked             decimal.Decimal `json:"hours_worked"`
}
