package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db database.Pool
}

func NewAttendanceRepository(db database.Pool) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, date, clock_in, clock_out, overtime_minutes, overtime_approved, notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var (
		r    attendance.Record
		date time.Time
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &date, &r.ClockIn, &r.ClockOut,
		&r.OvertimeMinutes, &r.OvertimeApproved, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	r.Date = dateutil.Of(date)
	return r, nil
}

func (a *attendanceRepository) list(ctx context.Context, where string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records ` + where + ` ORDER BY date DESC, employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance records: %w", err)
	}
	return records, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	r, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record with id %s: %w", id, err)
	}
	return r, nil
}

// ListAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Record, error) {
	return a.list(ctx, "")
}

// ListInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInRange(ctx context.Context, r dateutil.Range) ([]attendance.Record, error) {
	return a.list(ctx, `WHERE date BETWEEN $1 AND $2`, r.Start.Time(), r.End.Time())
}

// ListForEmployeeInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListForEmployeeInRange(ctx context.Context, employeeID string, r dateutil.Range) ([]attendance.Record, error) {
	return a.list(ctx, `WHERE employee_id = $1 AND date BETWEEN $2 AND $3`, employeeID, r.Start.Time(), r.End.Time())
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if rec.ID == "" {
		rec.ID = newID()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, clock_in, clock_out, overtime_minutes, overtime_approved, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			overtime_minutes = EXCLUDED.overtime_minutes,
			overtime_approved = EXCLUDED.overtime_approved,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date.Time(), rec.ClockIn, rec.ClockOut,
		rec.OvertimeMinutes, rec.OvertimeApproved, rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET date = $2, clock_in = $3, clock_out = $4, overtime_minutes = $5,
			overtime_approved = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.Date.Time(), rec.ClockIn, rec.ClockOut,
		rec.OvertimeMinutes, rec.OvertimeApproved, rec.Notes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		if isUniqueViolation(err, "uk_attendance_employee_date") {
			return attendance.Record{}, fmt.Errorf("attendance already recorded for %s: %w", rec.Date, err)
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return rec, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
