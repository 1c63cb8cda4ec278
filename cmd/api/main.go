package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/holiday"
	appHTTP "github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/holidayfile"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/payroll"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-payroll-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	loc := cfg.App.Timezone

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	txManager := postgresql.NewTxManager(db)

	holidaySvc := holidayService.NewHolidayService(holidayRepo, logger)
	if cfg.Holiday.SeedFile != "" {
		if err := importHolidays(ctx, holidaySvc, cfg.Holiday.SeedFile, logger); err != nil {
			return err
		}
	}

	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		leaveRequestRepo,
		holidayRepo,
		attendanceService.NewResolver(loc),
	)
	leaveSvc := leaveService.NewLeaveService(employeeRepo, leaveRequestRepo, settingsRepo, leaveService.NewBalanceCalculator(loc))

	paydayEvents := appHTTP.NewPaydayEvents(sse.NewHub(), logger)

	calculator := payrollService.NewCalculator(logger)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, attendanceSvc, calculator, txManager, loc)
	paydayRunner := payrollService.NewPaydayRunner(employeeRepo, payrollRepo, attendanceSvc, calculator, payrollService.PaydayConfig{
		Location:   loc,
		BatchLimit: cfg.Payday.BatchLimit,
		Logger:     logger,
		Observer:   paydayEvents,
	})

	scheduler := cron.NewScheduler(cron.WithLogger(logger))
	if cfg.Payday.Enabled {
		cron.NewPaydayJobs(paydayRunner, cfg.Payday.CheckInterval, logger).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	}, JWTService, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, loc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc, paydayRunner, loc),
		Events:     paydayEvents,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", srv.Addr, "timezone", loc.String(), "payday_enabled", cfg.Payday.Enabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func importHolidays(ctx context.Context, svc holiday.HolidayService, path string, logger *slog.Logger) error {
	seed, err := holidayfile.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load holiday seed file: %w", err)
	}

	result, err := svc.Import(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to import holidays: %w", err)
	}
	logger.Info("Holiday seed imported", "file", path, "written", result.Written, "kept", result.Kept)
	return nil
}
