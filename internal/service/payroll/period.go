package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

// PaydayPeriod returns the period paid out on day. Only the 1st (second half
// of the previous month) and the 16th (first half of the current month) are
// paydays.
func PaydayPeriod(day dateutil.Date) (dateutil.Range, bool) {
	switch day.Day() {
	case 1:
		prev := day.AddDays(-1)
		return dateutil.Range{
			Start: dateutil.New(prev.Year(), prev.Month(), 16),
			End:   prev,
		}, true
	case 16:
		return dateutil.Range{
			Start: dateutil.New(day.Year(), day.Month(), 1),
			End:   dateutil.New(day.Year(), day.Month(), 15),
		}, true
	}
	return dateutil.Range{}, false
}

// AdjustedPayDate moves a weekend payday to the following Monday. It does
// not change which period is paid.
func AdjustedPayDate(day dateutil.Date) dateutil.Date {
	switch day.Weekday() {
	case time.Saturday:
		return day.AddDays(2)
	case time.Sunday:
		return day.AddDays(1)
	}
	return day
}

// HalfMonth returns the half-month period containing day.
func HalfMonth(day dateutil.Date) dateutil.Range {
	if day.Day() <= 15 {
		return dateutil.Range{
			Start: dateutil.New(day.Year(), day.Month(), 1),
			End:   dateutil.New(day.Year(), day.Month(), 15),
		}
	}
	return dateutil.Range{
		Start: dateutil.New(day.Year(), day.Month(), 16),
		End:   dateutil.EndOfMonth(day),
	}
}
