package leave

import (
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// SubmitRequest creates or edits a pending leave request. LeaveType accepts
// either a display label ("Sick Leave") or a type name ("Sick").
type SubmitRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else {
		validator.IDField(&errs, "employee_id", r.EmployeeID)
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Period assumes Validate has passed.
func (r *SubmitRequest) Period() dateutil.Range {
	return dateutil.Range{
		Start: dateutil.MustParse(r.StartDate),
		End:   dateutil.MustParse(r.EndDate),
	}
}

type DecideRequest struct {
	Status string `json:"status"`
}

func (r *DecideRequest) Validate() error {
	switch RequestStatus(r.Status) {
	case RequestStatusApproved, RequestStatusRejected:
		return nil
	}
	return validator.ValidationErrors{{Field: "status", Message: ErrInvalidLeaveStatus.Error()}}
}

type PolicyRequest struct {
	AnnualVacation  *float64 `json:"annual_vacation"`
	AnnualSick      *float64 `json:"annual_sick"`
	AnnualEmergency *float64 `json:"annual_emergency"`
}

func (r *PolicyRequest) Validate() error {
	var errs validator.ValidationErrors
	check := func(field string, v *float64) {
		if v != nil && (*v < 0 || *v > 366) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be between 0 and 366",
			})
		}
	}
	check("annual_vacation", r.AnnualVacation)
	check("annual_sick", r.AnnualSick)
	check("annual_emergency", r.AnnualEmergency)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply overlays the set fields of r onto p.
func (r *PolicyRequest) Apply(p Policy) Policy {
	if r.AnnualVacation != nil {
		p.AnnualVacation = *r.AnnualVacation
	}
	if r.AnnualSick != nil {
		p.AnnualSick = *r.AnnualSick
	}
	if r.AnnualEmergency != nil {
		p.AnnualEmergency = *r.AnnualEmergency
	}
	return p
}

type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
}

type RequestResponse struct {
	ID         string        `json:"id"`
	EmployeeID string        `json:"employee_id"`
	LeaveType  string        `json:"leave_type"`
	StartDate  dateutil.Date `json:"start_date"`
	EndDate    dateutil.Date `json:"end_date"`
	Days       int           `json:"days"`
	Reason     string        `json:"reason"`
	Status     RequestStatus `json:"status"`
	CreatedAt  string        `json:"created_at"`
}

var requestStatuses = []string{
	string(RequestStatusPending),
	string(RequestStatusApproved),
	string(RequestStatusRejected),
}

// ParseRequestFilter builds a RequestFilter from query string values.
func ParseRequestFilter(employeeID, status string) (RequestFilter, error) {
	var (
		f    RequestFilter
		errs validator.ValidationErrors
	)

	if !validator.IsEmpty(employeeID) {
		validator.IDField(&errs, "employee_id", employeeID)
		f.EmployeeID = &employeeID
	}
	if status != "" {
		if !validator.IsInSlice(status, requestStatuses) {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of pending, approved, rejected"})
		} else {
			s := RequestStatus(status)
			f.Status = &s
		}
	}

	if len(errs) > 0 {
		return RequestFilter{}, errs
	}
	return f, nil
}
