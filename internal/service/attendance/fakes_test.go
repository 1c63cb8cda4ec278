package attendance

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
)

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []attendance.Record
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) ListAll(ctx context.Context) ([]attendance.Record, error) {
	return f.filter(func(attendance.Record) bool { return true }), nil
}

func (f *fakeAttendanceRepo) ListInRange(ctx context.Context, r dateutil.Range) ([]attendance.Record, error) {
	return f.filter(func(rec attendance.Record) bool { return r.Contains(rec.Date) }), nil
}

func (f *fakeAttendanceRepo) ListForEmployeeInRange(ctx context.Context, employeeID string, r dateutil.Range) ([]attendance.Record, error) {
	return f.filter(func(rec attendance.Record) bool {
		return rec.EmployeeID == employeeID && r.Contains(rec.Date)
	}), nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.EmployeeID == rec.EmployeeID && r.Date.Equal(rec.Date) {
			rec.ID = r.ID
			f.records[i] = rec
			return rec, nil
		}
	}
	rec.ID = uuid.NewString()
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == rec.ID {
			f.records[i] = rec
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) filter(keep func(attendance.Record) bool) []attendance.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Record
	for _, r := range f.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

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
	var out []employee.Employee
	for _, e := range f.employees {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (f *fakeLeaveRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.Request, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return leave.Request{}, leave.ErrLeaveRequestNotFound
}

func (f *fakeLeaveRepo) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	return req, nil
}

func (f *fakeLeaveRepo) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus) (leave.Request, error) {
	return leave.Request{}, nil
}

func (f *fakeLeaveRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	return f.requests, nil
}

func (f *fakeLeaveRepo) ListApproved(ctx context.Context) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.IsApproved() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) ListApprovedForEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.IsApproved() && r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) ListAll(ctx context.Context) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) Upsert(ctx context.Context, h holiday.Holiday) (bool, error) {
	f.holidays = append(f.holidays, h)
	return true, nil
}

func (f *fakeHolidayRepo) Delete(ctx context.Context, id string) error {
	return nil
}
