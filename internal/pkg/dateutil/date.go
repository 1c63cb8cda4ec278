// Package dateutil provides an immutable calendar date and inclusive date
// ranges. A Date carries no time of day and no zone; callers convert
// timestamps with In or Of using the location they care about.
package dateutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidRange = errors.New("invalid date range: end is before start")
)

// Date is a calendar day. The zero value is "no date".
type Date struct {
	t time.Time // always midnight UTC
}

// New returns the date y-m-d, normalising overflow the same way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of strips the time of day from t as seen in t's own location.
func Of(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return New(y, m, d)
}

// In returns the calendar day of t in loc.
func In(t time.Time, loc *time.Location) Date {
	if loc == nil {
		return Of(t)
	}
	return Of(t.In(loc))
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Of(t), nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) AddMonths(n int) Date {
	return New(d.Year(), d.Month()+time.Month(n), d.Day())
}

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// DaysUntil returns the number of days from d to o; negative if o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Time returns midnight UTC of d, suitable for DATE columns.
func (d Date) Time() time.Time { return d.t }

// At returns the instant h:m on day d in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func StartOfYear(year int) Date { return New(year, time.January, 1) }
func EndOfYear(year int) Date { return New(year, time.December, 31) }

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d Date) Date {
	return New(d.Year(), d.Month()+1, 0)
}
