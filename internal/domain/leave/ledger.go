package leave

import "github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"

// Ledger indexes approved leave requests by employee.
type Ledger struct {
	byEmployee map[string][]Request
}

// NewLedger keeps only approved requests; pending and rejected ones never
// affect attendance or balances.
func NewLedger(requests []Request) Ledger {
	l := Ledger{byEmployee: make(map[string][]Request)}
	for _, r := range requests {
		if !r.IsApproved() {
			continue
		}
		l.byEmployee[r.EmployeeID] = append(l.byEmployee[r.EmployeeID], r)
	}
	return l
}

func (l Ledger) ForEmployee(employeeID string) []Request {
	return l.byEmployee[employeeID]
}

// Covering returns the first approved leave of employeeID containing day.
func (l Ledger) Covering(employeeID string, day dateutil.Date) (Request, bool) {
	for _, r := range l.byEmployee[employeeID] {
		if r.Period().Contains(day) {
			return r, true
		}
	}
	return Request{}, false
}

func (l Ledger) IsOnLeave(employeeID string, day dateutil.Date) bool {
	_, ok := l.Covering(employeeID, day)
	return ok
}

// OverlapDays sums, over approved leaves of type t, the days each has in common with r.
func (l Ledger) OverlapDays(employeeID string, t Type, r dateutil.Range) int {
	total := 0
	for _, req := range l.byEmployee[employeeID] {
		if req.Type != t {
			continue
		}
		total += req.Period().OverlapDays(r)
	}
	return total
}
