package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
)

const DefaultBatchLimit = 500

// AttendanceSummarizer supplies the attendance aggregates payroll is computed from.
type AttendanceSummarizer interface {
	Summarize(ctx context.Context, employeeID string, r dateutil.Range) (attendance.Summary, error)
}

// RunObserver is told about every payday run that was due, including runs
// with failures. It is not called for runs interrupted before the end.
type RunObserver interface {
	PaydayRunFinished(ctx context.Context, result payroll.RunResult)
}

// PaydayRunner generates automatic payroll on paydays. Concurrent calls do not
// overlap; the loser gets ErrPaydayRunInProgress. Duplicate records are
// prevented by the store, so a rerun of the same day only counts skips.
type PaydayRunner struct {
	employees  employee.EmployeeRepository
	payrolls   payroll.PayrollRepository
	attendance AttendanceSummarizer
	calculator *Calculator
	loc        *time.Location
	batchLimit int
	logger     *slog.Logger
	observer   RunObserver
	mu         sync.Mutex
}

type PaydayConfig struct {
	Location   *time.Location
	BatchLimit int
	Logger     *slog.Logger
	Observer   RunObserver
}

func NewPaydayRunner(
	employeeRepo employee.EmployeeRepository,
	payrollRepo payroll.PayrollRepository,
	summarizer AttendanceSummarizer,
	calculator *Calculator,
	cfg PaydayConfig,
) *PaydayRunner {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.BatchLimit <= 0 {
		cfg.BatchLimit = DefaultBatchLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &PaydayRunner{
		employees:  employeeRepo,
		payrolls:   payrollRepo,
		attendance: summarizer,
		calculator: calculator,
		loc:        cfg.Location,
		batchLimit: cfg.BatchLimit,
		logger:     cfg.Logger,
		observer:   cfg.Observer,
	}
}

// RunPaydayIfDue implements payroll.PaydayService.
func (p *PaydayRunner) RunPaydayIfDue(ctx context.Context, now time.Time) (payroll.RunResult, error) {
	if !p.mu.TryLock() {
		return payroll.RunResult{}, payroll.ErrPaydayRunInProgress
	}
	defer p.mu.Unlock()

	today := dateutil.In(now, p.loc)
	period, due := PaydayPeriod(today)
	if !due {
		p.logger.Debug("Not a payday", "date", today.String())
		return payroll.RunResult{}, nil
	}

	result := payroll.RunResult{
		RunID:   newRunID(),
		Due:     true,
		PayDate: AdjustedPayDate(today),
		Period:  period,
	}
	log := p.logger.With(
		"run_id", result.RunID,
		"period_start", period.Start.String(),
		"period_end", period.End.String(),
	)
	log.Info("Payday run starting", "pay_date", result.PayDate.String())

	employees, err := p.employees.ListActive(ctx, p.batchLimit)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("payday run interrupted: %w", err)
		}

		saved, created, err := p.runEmployee(ctx, emp, period)
		if err != nil {
			log.Error("Payday payroll failed", "employee_id", emp.ID, "error", err)
			result.Failures = append(result.Failures, payroll.EmployeeFailure{EmployeeID: emp.ID, Err: err})
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created = append(result.Created, saved)
	}

	log.Info("Payday run finished",
		"employees", len(employees),
		"created", len(result.Created),
		"skipped", result.Skipped,
		"failed", len(result.Failures),
	)
	if p.observer != nil {
		p.observer.PaydayRunFinished(ctx, result)
	}

	if len(result.Failures) > 0 {
		errs := []error{payroll.ErrBatchPartialFailure}
		for _, f := range result.Failures {
			errs = append(errs, f)
		}
		return result, errors.Join(errs...)
	}
	return result, nil
}

func (p *PaydayRunner) runEmployee(ctx context.Context, emp employee.Employee, period dateutil.Range) (payroll.PayrollRecord, bool, error) {
	summary, err := p.attendance.Summarize(ctx, emp.ID, period)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("summarize attendance: %w", err)
	}

	rec := p.calculator.Automatic(emp, summary)
	saved, created, err := p.payrolls.CreateIfAbsent(ctx, rec)
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("save payroll record: %w", err)
	}
	saved.Warnings = rec.Warnings
	return saved, created, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
