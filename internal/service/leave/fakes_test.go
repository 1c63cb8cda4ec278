package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/google/uuid"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context, limit int) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive() && (limit <= 0 || len(out) < limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListByIDs(ctx context.Context, ids []string) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeLeaveRepo struct {
	requests map[string]leave.Request
	order    []string
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeLeaveRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	req.ID = uuid.NewString()
	f.requests[req.ID] = req
	f.order = append(f.order, req.ID)
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeLeaveRepo) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	existing, ok := f.requests[req.ID]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	if existing.Status != leave.RequestStatusPending {
		return leave.Request{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus) (leave.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.RequestStatusPending {
		return leave.Request{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	r.Status = status
	f.requests[id] = r
	return r, nil
}

func (f *fakeLeaveRepo) Delete(ctx context.Context, id string) error {
	r, ok := f.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.RequestStatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	delete(f.requests, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	var out []leave.Request
	for _, id := range f.order {
		r := f.requests[id]
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListApproved(ctx context.Context) ([]leave.Request, error) {
	status := leave.RequestStatusApproved
	return f.List(ctx, leave.RequestFilter{Status: &status})
}

func (f *fakeLeaveRepo) ListApprovedForEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	status := leave.RequestStatusApproved
	return f.List(ctx, leave.RequestFilter{EmployeeID: &employeeID, Status: &status})
}

type fakeSettingsRepo struct {
	policy *leave.Policy
}

func (f *fakeSettingsRepo) GetLeavePolicy(ctx context.Context) (leave.Policy, error) {
	if f.policy == nil {
		return leave.DefaultPolicy(), nil
	}
	return *f.policy, nil
}

func (f *fakeSettingsRepo) UpsertLeavePolicy(ctx context.Context, p leave.Policy) error {
	f.policy = &p
	return nil
}
