package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
)

type Type string

const (
	TypeRegular Type = "regular"
	TypeSpecial Type = "special"
	TypeLocal   Type = "local"
)

func (t Type) Valid() bool {
	switch t {
	case TypeRegular, TypeSpecial, TypeLocal:
		return true
	}
	return false
}

// Holiday is a company wide non-working day. ManualOverride marks entries
// edited by an operator; seed imports never replace them.
type Holiday struct {
	ID             string
	Name           string
	Date           dateutil.Date
	Type           Type
	ManualOverride bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
