package attendance

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Bounds used when a listing filter leaves one end open.
var (
	earliestDate = dateutil.New(1970, time.January, 1)
	latestDate   = dateutil.New(9999, time.December, 31)
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	holiday.HolidayRepository
	resolver *Resolver
	workers  int
}

// ListViews implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListViews(ctx context.Context, filter attendance.Filter) ([]attendance.View, error) {
	records, err := s.listRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []attendance.View{}, nil
	}

	var (
		ledger leave.Ledger
		cal    holiday.Calendar
		names  employee.NameIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var (
			leaves []leave.Request
			err    error
		)
		if filter.EmployeeID != nil {
			leaves, err = s.LeaveRequestRepository.ListApprovedForEmployee(gctx, *filter.EmployeeID)
		} else {
			leaves, err = s.LeaveRequestRepository.ListApproved(gctx)
		}
		if err != nil {
			return fmt.Errorf("failed to list approved leaves: %w", err)
		}
		ledger = leave.NewLedger(leaves)
		return nil
	})
	g.Go(func() error {
		holidays, err := s.HolidayRepository.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to list holidays: %w", err)
		}
		cal = holiday.NewCalendar(holidays)
		return nil
	})
	g.Go(func() error {
		employees, err := s.EmployeeRepository.ListByIDs(gctx, employeeIDs(records))
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		names = employee.NewNameIndex(employees)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.resolveAll(ctx, records, ledger, cal, names)
}

// resolveAll resolves records in parallel, keeping their order.
func (s *AttendanceServiceImpl) resolveAll(ctx context.Context, records []attendance.Record, ledger leave.Ledger, cal holiday.Calendar, names employee.NameIndex) ([]attendance.View, error) {
	views := make([]attendance.View, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			views[i] = s.resolver.ResolveWith(records[i], ledger, cal, names)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

func (s *AttendanceServiceImpl) listRecords(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	rng, bounded := filter.Range(earliestDate, latestDate)

	var (
		records []attendance.Record
		err     error
	)
	switch {
	case filter.EmployeeID != nil:
		if !bounded {
			rng = dateutil.Range{Start: earliestDate, End: latestDate}
		}
		records, err = s.AttendanceRepository.ListForEmployeeInRange(ctx, *filter.EmployeeID, rng)
	case bounded:
		records, err = s.AttendanceRepository.ListInRange(ctx, rng)
	default:
		records, err = s.AttendanceRepository.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

// Summarize implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summarize(ctx context.Context, employeeID string, r dateutil.Range) (attendance.Summary, error) {
	records, err := s.AttendanceRepository.ListForEmployeeInRange(ctx, employeeID, r)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	leaves, err := s.LeaveRequestRepository.ListApprovedForEmployee(ctx, employeeID)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	holidays, err := s.HolidayRepository.ListAll(ctx)
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	ledger := leave.NewLedger(leaves)
	cal := holiday.NewCalendar(holidays)
	views := make([]attendance.View, 0, len(records))
	for _, rec := range records {
		views = append(views, s.resolver.ResolveWith(rec, ledger, cal, nil))
	}

	return Summarize(employeeID, r, views), nil
}

// Summarize totals resolved views. Late and approved overtime minutes are
// summed over every view regardless of status.
func Summarize(employeeID string, r dateutil.Range, views []attendance.View) attendance.Summary {
	sum := attendance.Summary{
		EmployeeID:  employeeID,
		Period:      r,
		HoursWorked: decimal.Zero,
	}
	for _, v := range views {
		switch v.Status {
		case attendance.StatusPresent:
			sum.PresentDays++
		case attendance.StatusLate:
			sum.LateDays++
		case attendance.StatusAbsent:
			sum.AbsentDays++
		case attendance.StatusOnLeave:
			sum.LeaveDays++
		case attendance.StatusHoliday:
			sum.HolidayDays++
		}
		sum.LateMinutes += v.LateMinutes
		if v.OvertimeApproved {
			sum.ApprovedOvertimeMinutes += v.OvertimeMinutes
		}
		sum.HoursWorked = sum.HoursWorked.Add(v.HoursWorked.Decimal)
	}
	return sum
}

// Record implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Record(ctx context.Context, req attendance.RecordRequest) (attendance.View, error) {
	rec, err := s.buildRecord(req)
	if err != nil {
		return attendance.View{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, rec.EmployeeID); err != nil {
		return attendance.View{}, err
	}

	saved, err := s.AttendanceRepository.Upsert(ctx, rec)
	if err != nil {
		return attendance.View{}, fmt.Errorf("failed to save attendance: %w", err)
	}

	return s.resolveOne(ctx, saved)
}

// Correct implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Correct(ctx context.Context, id string, req attendance.RecordRequest) (attendance.View, error) {
	if !validator.IsValidUUID(id) {
		return attendance.View{}, attendance.ErrAttendanceNotFound
	}

	existing, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.View{}, err
	}

	if validator.IsEmpty(req.EmployeeID) {
		req.EmployeeID = existing.EmployeeID
	}
	if req.EmployeeID != existing.EmployeeID {
		return attendance.View{}, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id cannot be changed"}}
	}

	rec, err := s.buildRecord(req)
	if err != nil {
		return attendance.View{}, err
	}
	rec.ID = existing.ID

	updated, err := s.AttendanceRepository.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.View{}, err
		}
		return attendance.View{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return s.resolveOne(ctx, updated)
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return attendance.ErrAttendanceNotFound
	}

	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func (s *AttendanceServiceImpl) buildRecord(req attendance.RecordRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	day := dateutil.MustParse(req.Date)
	rec := attendance.Record{
		EmployeeID:       req.EmployeeID,
		Date:             day,
		OvertimeMinutes:  req.OvertimeMinutes,
		OvertimeApproved: req.OvertimeApproved,
		Notes:            req.Notes,
	}
	if req.IsAbsent() {
		return rec, nil
	}

	loc := s.resolver.Location()
	if req.TimeIn != "" {
		h, m, _ := validator.ParseClock(req.TimeIn)
		in := day.At(h, m, loc)
		rec.ClockIn = &in
	}
	if req.TimeOut != "" {
		h, m, _ := validator.ParseClock(req.TimeOut)
		out := day.At(h, m, loc)
		if rec.ClockIn != nil && !out.After(*rec.ClockIn) {
			return attendance.Record{}, validator.ValidationErrors{{Field: "time_out", Message: attendance.ErrClockOutBeforeIn.Error()}}
		}
		rec.ClockOut = &out
	}
	return rec, nil
}

func (s *AttendanceServiceImpl) resolveOne(ctx context.Context, rec attendance.Record) (attendance.View, error) {
	leaves, err := s.LeaveRequestRepository.ListApprovedForEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return attendance.View{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	holidays, err := s.HolidayRepository.ListAll(ctx)
	if err != nil {
		return attendance.View{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	employees, err := s.EmployeeRepository.ListByIDs(ctx, []string{rec.EmployeeID})
	if err != nil {
		return attendance.View{}, fmt.Errorf("failed to list employees: %w", err)
	}

	return s.resolver.ResolveWith(rec, leave.NewLedger(leaves), holiday.NewCalendar(holidays), employee.NewNameIndex(employees)), nil
}

func employeeIDs(records []attendance.Record) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; ok {
			continue
		}
		seen[r.EmployeeID] = struct{}{}
		ids = append(ids, r.EmployeeID)
	}
	return ids
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	holidayRepo holiday.HolidayRepository,
	resolver *Resolver,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		LeaveRequestRepository: leaveRepo,
		HolidayRepository:      holidayRepo,
		resolver:               resolver,
		workers:                runtime.GOMAXPROCS(0),
	}
}
