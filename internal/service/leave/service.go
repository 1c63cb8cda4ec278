package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	leave.SettingsRepository
	calculator *BalanceCalculator
}

// ListBalances implements leave.LeaveService.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context, now time.Time) ([]leave.Balance, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	policy, err := s.SettingsRepository.GetLeavePolicy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave policy: %w", err)
	}

	approved, err := s.LeaveRequestRepository.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	ledger := leave.NewLedger(approved)

	balances := make([]leave.Balance, 0, len(employees))
	for _, emp := range employees {
		balances = append(balances, s.calculator.ComputeWith(emp, policy, ledger, now))
	}
	return balances, nil
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, employeeID string, now time.Time) (leave.Balance, error) {
	if !validator.IsValidUUID(employeeID) {
		return leave.Balance{}, employee.ErrEmployeeNotFound
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, err
	}

	policy, err := s.SettingsRepository.GetLeavePolicy(ctx)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave policy: %w", err)
	}

	approved, err := s.LeaveRequestRepository.ListApprovedForEmployee(ctx, employeeID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	return s.calculator.Compute(emp, policy, approved, now), nil
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.SubmitRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.RequestResponse{}, err
	}

	created, err := s.LeaveRequestRepository.Create(ctx, newRequest(req))
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return toRequestResponse(created), nil
}

// Edit implements leave.LeaveService.
func (s *LeaveServiceImpl) Edit(ctx context.Context, id string, req leave.SubmitRequest) (leave.RequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.RequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	existing, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if existing.Status != leave.RequestStatusPending {
		return leave.RequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	if validator.IsEmpty(req.EmployeeID) {
		req.EmployeeID = existing.EmployeeID
	}
	if req.EmployeeID != existing.EmployeeID {
		return leave.RequestResponse{}, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id cannot be changed"}}
	}
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	edited := newRequest(req)
	edited.ID = existing.ID
	edited.CreatedAt = existing.CreatedAt

	updated, err := s.LeaveRequestRepository.Update(ctx, edited)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.RequestResponse{}, err
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return toRequestResponse(updated), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, id string, req leave.DecideRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}
	if !validator.IsValidUUID(id) {
		return leave.RequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	decided, err := s.LeaveRequestRepository.UpdateStatus(ctx, id, leave.RequestStatus(req.Status))
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.RequestResponse{}, err
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave status: %w", err)
	}

	return toRequestResponse(decided), nil
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return leave.ErrLeaveRequestNotFound
	}

	if err := s.LeaveRequestRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// ListRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, error) {
	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, toRequestResponse(r))
	}
	return resp, nil
}

// GetPolicy implements leave.LeaveService.
func (s *LeaveServiceImpl) GetPolicy(ctx context.Context) (leave.Policy, error) {
	policy, err := s.SettingsRepository.GetLeavePolicy(ctx)
	if err != nil {
		return leave.Policy{}, fmt.Errorf("failed to get leave policy: %w", err)
	}
	return policy, nil
}

// UpdatePolicy implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdatePolicy(ctx context.Context, req leave.PolicyRequest) (leave.Policy, error) {
	if err := req.Validate(); err != nil {
		return leave.Policy{}, err
	}

	current, err := s.GetPolicy(ctx)
	if err != nil {
		return leave.Policy{}, err
	}

	updated := req.Apply(current)
	if err := s.SettingsRepository.UpsertLeavePolicy(ctx, updated); err != nil {
		return leave.Policy{}, fmt.Errorf("failed to save leave policy: %w", err)
	}
	return updated, nil
}

func newRequest(req leave.SubmitRequest) leave.Request {
	period := req.Period()
	r := leave.Request{
		EmployeeID: req.EmployeeID,
		Type:       leave.TypeFromLabel(req.LeaveType),
		StartDate:  period.Start,
		EndDate:    period.End,
		Days:       period.Days(),
		Reason:     req.Reason,
		Status:     leave.RequestStatusPending,
	}
	if r.Type == leave.TypeCustom {
		r.CustomLabel = req.LeaveType
	}
	return r
}

func toRequestResponse(r leave.Request) leave.RequestResponse {
	resp := leave.RequestResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		LeaveType:  r.Label(),
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Days:       r.Days,
		Reason:     r.Reason,
		Status:     r.Status,
	}
	if !r.CreatedAt.IsZero() {
		resp.CreatedAt = r.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func NewLeaveService(
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	settingsRepo leave.SettingsRepository,
	calculator *BalanceCalculator,
) leave.LeaveService {
	return &LeaveServiceImpl{
		EmployeeRepository:     employeeRepo,
		LeaveRequestRepository: leaveRepo,
		SettingsRepository:     settingsRepo,
		calculator:             calculator,
	}
}
