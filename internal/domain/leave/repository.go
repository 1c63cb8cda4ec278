package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, req Request) (Request, error)
	// UpdateStatus moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed if the request is no longer pending.
	UpdateStatus(ctx context.Context, id string, status RequestStatus) (Request, error)
	// Delete removes a pending request. Decided requests stay in the ledger
	// and return ErrLeaveRequestAlreadyProcessed.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RequestFilter) ([]Request, error)
	ListApproved(ctx context.Context) ([]Request, error)
	ListApprovedForEmployee(ctx context.Context, employeeID string) ([]Request, error)
}

type SettingsRepository interface {
	// GetLeavePolicy returns DefaultPolicy when nothing has been stored.
	GetLeavePolicy(ctx context.Context) (Policy, error)
	UpsertLeavePolicy(ctx context.Context, p Policy) error
}
