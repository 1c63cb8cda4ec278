package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5"
)

const payrollPeriodConstraint = "uk_payroll_employee_period"

type payrollRepository struct {
	db database.Pool
}

func NewPayrollRepository(db database.Pool) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollSelect = `
	SELECT p.id, p.employee_id, p.period_start, p.period_end,
		p.basic_salary, p.allowances, p.overtime, p.deductions,
		p.sss, p.philhealth, p.pagibig, p.withholding_tax,
		p.gross_pay, p.net_pay, p.late_minutes, p.overtime_minutes,
		p.status, p.mode, p.paid_at, p.notes, p.created_at, p.updated_at,
		e.full_name
	FROM payroll_records p
	LEFT JOIN employees e ON e.id = p.employee_id
`

func scanPayroll(row pgx.Row) (payroll.PayrollRecord, error) {
	var (
		r          payroll.PayrollRecord
		start, end time.Time
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &start, &end,
		&r.Basic, &r.Allowances, &r.Overtime, &r.Deductions,
		&r.Contributions.SSS, &r.Contributions.PhilHealth, &r.Contributions.PagIBIG, &r.Contributions.WithholdingTax,
		&r.GrossPay, &r.NetPay, &r.LateMinutes, &r.OvertimeMinutes,
		&r.Status, &r.Mode, &r.PaidAt, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	r.PeriodStart = dateutil.Of(start)
	r.PeriodEnd = dateutil.Of(end)
	return r, nil
}

func insertArgs(r payroll.PayrollRecord) []interface{} {
	return []interface{}{
		r.ID, r.EmployeeID, r.PeriodStart.Time(), r.PeriodEnd.Time(),
		r.Basic, r.Allowances, r.Overtime, r.Deductions,
		r.Contributions.SSS, r.Contributions.PhilHealth, r.Contributions.PagIBIG, r.Contributions.WithholdingTax,
		r.GrossPay, r.NetPay, r.LateMinutes, r.OvertimeMinutes,
		r.Status, r.Mode, r.Notes,
	}
}

const payrollInsert = `
	INSERT INTO payroll_records (
		id, employee_id, period_start, period_end,
		basic_salary, allowances, overtime, deductions,
		sss, philhealth, pagibig, withholding_tax,
		gross_pay, net_pay, late_minutes, overtime_minutes,
		status, mode, notes
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = newID()
	}

	query := payrollInsert + ` RETURNING id, created_at, updated_at`

	err := q.QueryRow(ctx, query, insertArgs(rec)...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, payrollPeriodConstraint) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return rec, nil
}

// CreateIfAbsent implements payroll.PayrollRepository.
func (r *payrollRepository) CreateIfAbsent(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, bool, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = newID()
	}

	query := payrollInsert + `
		ON CONFLICT ON CONSTRAINT ` + payrollPeriodConstraint + ` DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, insertArgs(rec)...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to create payroll record: %w", err)
	}

	existing, err := scanPayroll(q.QueryRow(ctx,
		payrollSelect+` WHERE p.employee_id = $1 AND p.period_start = $2 AND p.period_end = $3`,
		rec.EmployeeID, rec.PeriodStart.Time(), rec.PeriodEnd.Time(),
	))
	if err != nil {
		return payroll.PayrollRecord{}, false, fmt.Errorf("failed to get existing payroll record: %w", err)
	}
	return existing, false, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayroll(q.QueryRow(ctx, payrollSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func filterClause(filter payroll.PayrollFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.PeriodStart != nil {
		args = append(args, filter.PeriodStart.Time())
		conditions = append(conditions, fmt.Sprintf("p.period_start >= $%d", len(args)))
	}
	if filter.PeriodEnd != nil {
		args = append(args, filter.PeriodEnd.Time())
		conditions = append(conditions, fmt.Sprintf("p.period_end <= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter)
	query := payrollSelect + where + ` ORDER BY p.period_start DESC, e.full_name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payroll records: %w", err)
	}
	return records, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepository) Update(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			period_start = $2, period_end = $3,
			basic_salary = $4, allowances = $5, overtime = $6, deductions = $7,
			sss = $8, philhealth = $9, pagibig = $10, withholding_tax = $11,
			gross_pay = $12, net_pay = $13, late_minutes = $14, overtime_minutes = $15,
			status = $16, notes = $17, updated_at = NOW()
		WHERE id = $1 AND status <> 'paid'
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.ID, rec.PeriodStart.Time(), rec.PeriodEnd.Time(),
		rec.Basic, rec.Allowances, rec.Overtime, rec.Deductions,
		rec.Contributions.SSS, rec.Contributions.PhilHealth, rec.Contributions.PagIBIG, rec.Contributions.WithholdingTax,
		rec.GrossPay, rec.NetPay, rec.LateMinutes, rec.OvertimeMinutes,
		rec.Status, rec.Notes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		if isUniqueViolation(err, payrollPeriodConstraint) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to update payroll record: %w", err)
	}
	return rec, nil
}

// MarkPaid implements payroll.PayrollRepository.
func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'paid', paid_at = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'paid'
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, paidAt).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to mark payroll record paid: %w", err)
	}
	return r.GetByID(ctx, updatedID)
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND status <> 'paid'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}
	return nil
}

// Summary implements payroll.PayrollRepository.
func (r *payrollRepository) Summary(ctx context.Context, filter payroll.PayrollFilter) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter)
	query := `
		SELECT COALESCE(SUM(p.net_pay), 0), COALESCE(SUM(p.sss), 0),
			COALESCE(SUM(p.philhealth), 0), COALESCE(SUM(p.pagibig), 0), COUNT(*)
		FROM payroll_records p` + where

	var s payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, args...).Scan(
		&s.TotalNetPay, &s.TotalSSS, &s.TotalPhilHealth, &s.TotalPagIBIG, &s.Count,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to summarize payroll records: %w", err)
	}
	return s, nil
}
