package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db database.Pool
}

func NewLeaveRequestRepository(db database.Pool) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `id, employee_id, type, custom_label, start_date, end_date, days, reason, status, decided_at, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var (
		r          leave.Request
		start, end time.Time
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.CustomLabel, &start, &end, &r.Days,
		&r.Reason, &r.Status, &r.DecidedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, err
	}
	r.StartDate = dateutil.Of(start)
	r.EndDate = dateutil.Of(end)
	return r, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests ` + where + ` ORDER BY start_date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leave requests: %w", err)
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		req.ID = newID()
	}

	query := `
		INSERT INTO leave_requests (id, employee_id, type, custom_label, start_date, end_date, days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.EmployeeID, req.Type, req.CustomLabel, req.StartDate.Time(), req.EndDate.Time(),
		req.Days, req.Reason, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request with id %s: %w", id, err)
	}
	return req, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET type = $2, custom_label = $3, start_date = $4, end_date = $5, days = $6,
			reason = $7, status = $8, decided_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.Type, req.CustomLabel, req.StartDate.Time(), req.EndDate.Time(), req.Days,
		req.Reason, req.Status, req.DecidedAt,
	).Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return req, nil
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.RequestStatus) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2, decided_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + leaveRequestColumns

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, leave.RequestStatusPending))
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.Request{}, fmt.Errorf("failed to update leave request status: %w", err)
	}
	return leave.Request{}, r.missingOrProcessed(ctx, id)
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = $2`, id, leave.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	return r.missingOrProcessed(ctx, id)
}

// missingOrProcessed explains why a pending-only write matched no row.
func (r *leaveRequestRepositoryImpl) missingOrProcessed(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check leave request: %w", err)
	}
	if exists {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	return leave.ErrLeaveRequestNotFound
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return r.list(ctx, where, args...)
}

// ListApproved implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApproved(ctx context.Context) ([]leave.Request, error) {
	return r.list(ctx, `WHERE status = $1`, leave.RequestStatusApproved)
}

// ListApprovedForEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedForEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return r.list(ctx, `WHERE employee_id = $1 AND status = $2`, employeeID, leave.RequestStatusApproved)
}
