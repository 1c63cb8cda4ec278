package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
)

const PaydayJobName = "run_payday"

type PaydayJobs struct {
	payday   payroll.PaydayService
	interval time.Duration
	logger   *slog.Logger
}

func NewPaydayJobs(payday payroll.PaydayService, interval time.Duration, logger *slog.Logger) *PaydayJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PaydayJobs{payday: payday, interval: interval, logger: logger}
}

func (j *PaydayJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(PaydayJobName, j.interval, func(ctx context.Context) error {
		return j.RunPayday(ctx, scheduler.Now())
	})
}

// RunPayday evaluates the payday rule at now. Checking more than once on a
// payday is harmless; records that already exist are skipped.
func (j *PaydayJobs) RunPayday(ctx context.Context, now time.Time) error {
	result, err := j.payday.RunPaydayIfDue(ctx, now)
	if errors.Is(err, payroll.ErrPaydayRunInProgress) {
		j.logger.Info("Cron: Payday run already in progress")
		return nil
	}
	if !result.Due {
		return err
	}

	j.logger.Info("Cron: Payday run completed",
		"run_id", result.RunID,
		"pay_date", result.PayDate.String(),
		"created", len(result.Created),
		"skipped", result.Skipped,
		"failed", len(result.Failures),
	)
	return err
}
