package postgresql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayroll() payroll.PayrollRecord {
	rec := payroll.PayrollRecord{
		EmployeeID:  "emp-1",
		PeriodStart: dateutil.MustParse("2026-10-01"),
		PeriodEnd:   dateutil.MustParse("2026-10-15"),
		Basic:       decimal.NewFromInt(20000),
		GrossPay:    decimal.NewFromInt(20000),
		Deductions:  map[string]decimal.Decimal{payroll.DeductionLate: decimal.Zero},
		Status:      payroll.PayrollStatusFinalized,
		Mode:        payroll.ModeAutomatic,
	}
	rec.Settle()
	return rec
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestPayrollRepository_CreateIfAbsentInserts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT ON CONSTRAINT uk_payroll_employee_period DO NOTHING`)).
		WithArgs(anyArgs(19)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("pay-1", now, now))

	saved, created, err := NewPayrollRepository(mock).CreateIfAbsent(context.Background(), samplePayroll())

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "pay-1", saved.ID)
	assert.Equal(t, now, saved.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_CreateIfAbsentConflictLooksUpExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rec := samplePayroll()
	mock.ExpectQuery(regexp.QuoteMeta(`DO NOTHING`)).
		WithArgs(anyArgs(19)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.employee_id = $1 AND p.period_start = $2 AND p.period_end = $3`)).
		WithArgs("emp-1", rec.PeriodStart.Time(), rec.PeriodEnd.Time()).
		WillReturnError(errors.New("connection reset"))

	_, created, err := NewPayrollRepository(mock).CreateIfAbsent(context.Background(), rec)

	assert.False(t, created)
	assert.ErrorContains(t, err, "failed to get existing payroll record")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payroll_records`)).
		WithArgs(anyArgs(19)...).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: payrollPeriodConstraint})

	_, err = NewPayrollRepository(mock).Create(context.Background(), samplePayroll())

	assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_MarkPaidMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	paidAt := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SET status = 'paid', paid_at = $2`)).
		WithArgs("pay-1", paidAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err = NewPayrollRepository(mock).MarkPaid(context.Background(), "pay-1", paidAt)

	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	query := regexp.QuoteMeta(`DELETE FROM payroll_records WHERE id = $1 AND status <> 'paid'`)
	mock.ExpectExec(query).WithArgs("pay-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(query).WithArgs("pay-2").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPayrollRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), "pay-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "pay-2"), payroll.ErrPayrollRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterClause(t *testing.T) {
	where, args := filterClause(payroll.PayrollFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	employeeID := "emp-1"
	status := payroll.PayrollStatusPaid
	start := dateutil.MustParse("2026-01-01")
	where, args = filterClause(payroll.PayrollFilter{EmployeeID: &employeeID, Status: &status, PeriodStart: &start})

	assert.Equal(t, " WHERE p.employee_id = $1 AND p.status = $2 AND p.period_start >= $3", where)
	assert.Equal(t, []interface{}{"emp-1", payroll.PayrollStatusPaid, start.Time()}, args)
}

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func TestScanPayroll(t *testing.T) {
	row := stubRow{scanFn: func(dest ...interface{}) error {
		require.Len(t, dest, 23)
		*(dest[0].(*string)) = "pay-1"
		*(dest[1].(*string)) = "emp-1"
		*(dest[2].(*time.Time)) = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		*(dest[3].(*time.Time)) = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
		*(dest[4].(*decimal.Decimal)) = decimal.NewFromInt(20000)
		*(dest[13].(*decimal.Decimal)) = decimal.RequireFromString("18663.75")
		*(dest[16].(*payroll.PayrollStatus)) = payroll.PayrollStatusFinalized
		name := "Ana Cruz"
		*(dest[22].(**string)) = &name
		return nil
	}}

	rec, err := scanPayroll(row)

	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", rec.PeriodStart.String())
	assert.Equal(t, "2026-10-15", rec.PeriodEnd.String())
	assert.Equal(t, "18663.75", rec.NetPay.String())
	assert.Equal(t, payroll.PayrollStatusFinalized, rec.Status)
	require.NotNil(t, rec.EmployeeName)
	assert.Equal(t, "Ana Cruz", *rec.EmployeeName)
}
