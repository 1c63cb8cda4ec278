package attendance

import (
	"strings"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// RecordRequest is a manual attendance entry. TimeIn and TimeOut are HH:MM in
// the company timezone; Status "Absent" clears both clocks.
type RecordRequest struct {
	EmployeeID       string `json:"employee_id"`
	Date             string `json:"date"`
	TimeIn           string `json:"time_in"`
	TimeOut          string `json:"time_out"`
	Status           string `json:"status,omitempty"`
	OvertimeMinutes  int    `json:"overtime_minutes"`
	OvertimeApproved bool   `json:"overtime_approved"`
	Notes            string `json:"notes"`
}

func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else {
		validator.IDField(&errs, "employee_id", r.EmployeeID)
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !r.IsAbsent() {
		if r.TimeIn != "" && !validator.IsValidClock(r.TimeIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "time_in",
				Message: "time_in must be in HH:MM format",
			})
		}
		if r.TimeOut != "" && !validator.IsValidClock(r.TimeOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "time_out",
				Message: "time_out must be in HH:MM format",
			})
		}
		if r.TimeOut != "" && r.TimeIn == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "time_in",
				Message: "time_in is required when time_out is set",
			})
		}
	}

	if r.OvertimeMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_minutes",
			Message: "overtime_minutes must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *RecordRequest) IsAbsent() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), string(StatusAbsent))
}

// Filter selects records for ListViews. Both bounds are optional; when only
// one is given the other is open-ended.
type Filter struct {
	EmployeeID *string
	From       *dateutil.Date
	To         *dateutil.Date
}

// ParseFilter builds a Filter from query string values.
func ParseFilter(employeeID, from, to string) (Filter, error) {
	var (
		f    Filter
		errs validator.ValidationErrors
	)

	if !validator.IsEmpty(employeeID) {
		validator.IDField(&errs, "employee_id", employeeID)
		f.EmployeeID = &employeeID
	}
	if from != "" {
		d, err := dateutil.Parse(from)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		} else {
			f.From = &d
		}
	}
	if to != "" {
		d, err := dateutil.Parse(to)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		} else {
			f.To = &d
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}

	if len(errs) > 0 {
		return Filter{}, errs
	}
	return f, nil
}

// Range returns the filter bounds as a closed range, using lo and hi for
// missing ends. ok is false when neither bound is set.
func (f Filter) Range(lo, hi dateutil.Date) (dateutil.Range, bool) {
	if f.From == nil && f.To == nil {
		return dateutil.Range{}, false
	}
	r := dateutil.Range{Start: lo, End: hi}
	if f.From != nil {
		r.Start = *f.From
	}
	if f.To != nil {
		r.End = *f.To
	}
	return r, true
}
