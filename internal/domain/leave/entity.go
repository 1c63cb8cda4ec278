package leave

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type Type string

const (
	TypeVacation Type = "Vacation"
	TypeSick     Type = "Sick"
	TypeUnpaid   Type = "Unpaid"
	TypeCustom   Type = "Custom"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request is a leave request covering StartDate through EndDate inclusive.
// CustomLabel carries the free text label of a Custom request.
type Request struct {
	ID          string
	EmployeeID  string
	Type        Type
	CustomLabel string
	StartDate   dateutil.Date
	EndDate     dateutil.Date
	Days        int
	Reason      string
	Status      RequestStatus
	DecidedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Request) Period() dateutil.Range {
	return dateutil.Range{Start: r.StartDate, End: r.EndDate}
}

func (r Request) IsApproved() bool {
	return r.Status == RequestStatusApproved
}

// Label is the display name of the request's type.
func (r Request) Label() string {
	if r.Type == TypeCustom && r.CustomLabel != "" {
		return r.CustomLabel
	}
	return r.Type.Label()
}

// Policy holds annual entitlements in days per year.
type Policy struct {
	AnnualVacation  float64 `json:"annual_vacation"`
	AnnualSick      float64 `json:"annual_sick"`
	AnnualEmergency float64 `json:"annual_emergency"`
}

func DefaultPolicy() Policy {
	return Policy{AnnualVacation: 15, AnnualSick: 15, AnnualEmergency: 3}
}

// Annual returns the entitlement for t. Custom leave has none.
func (p Policy) Annual(t Type) float64 {
	switch t {
	case TypeVacation:
		return p.AnnualVacation
	case TypeSick:
		return p.AnnualSick
	case TypeUnpaid:
		return p.AnnualEmergency
	default:
		return 0
	}
}

// Value implements driver.Valuer for database storage
func (p Policy) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for database retrieval. Keys missing from the
// stored document, or a JSON null, keep their DefaultPolicy values.
func (p *Policy) Scan(value interface{}) error {
	*p = DefaultPolicy()
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Policy: invalid type")
	}

	return json.Unmarshal(bytes, p)
}

// Balance is the remaining leave per type for one employee, in days.
type Balance struct {
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	VacationLeave  float64 `json:"vacation_leave"`
	SickLeave      float64 `json:"sick_leave"`
	EmergencyLeave float64 `json:"emergency_leave"`
}
