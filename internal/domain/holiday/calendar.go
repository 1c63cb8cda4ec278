package holiday

import "github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"

// Calendar answers "is this day a holiday" for a fixed set of holidays.
type Calendar struct {
	days map[dateutil.Date][]Holiday
}

func NewCalendar(holidays []Holiday) Calendar {
	c := Calendar{days: make(map[dateutil.Date][]Holiday, len(holidays))}
	for _, h := range holidays {
		if h.Date.IsZero() {
			continue
		}
		c.days[h.Date] = append(c.days[h.Date], h)
	}
	return c
}

func (c Calendar) IsHoliday(day dateutil.Date) bool {
	return len(c.days[day]) > 0
}

// On returns the holidays falling on day.
func (c Calendar) On(day dateutil.Date) []Holiday {
	return c.days[day]
}

func (c Calendar) Len() int {
	return len(c.days)
}
