package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	FullName         string
	HireDate         *dateutil.Date
	EmploymentStatus EmploymentStatus
	Salary           Salary
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Salary holds monthly amounts.
type Salary struct {
	Basic      decimal.Decimal
	Allowances decimal.Decimal
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// UnknownName is shown wherever an employee reference cannot be resolved.
const UnknownName = "Unknown"

// NameIndex maps employee IDs to display names.
type NameIndex map[string]string

func NewNameIndex(employees []Employee) NameIndex {
	idx := make(NameIndex, len(employees))
	for _, e := range employees {
		idx[e.ID] = e.FullName
	}
	return idx
}

func (n NameIndex) Name(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return UnknownName
}
