package leave

import (
	"context"
	"time"
)

type LeaveService interface {
	// ListBalances computes balances for every active employee as of now.
	ListBalances(ctx context.Context, now time.Time) ([]Balance, error)
	GetBalance(ctx context.Context, employeeID string, now time.Time) (Balance, error)

	Submit(ctx context.Context, req SubmitRequest) (RequestResponse, error)
	// Edit is only allowed while the request is pending.
	Edit(ctx context.Context, id string, req SubmitRequest) (RequestResponse, error)
	Decide(ctx context.Context, id string, req DecideRequest) (RequestResponse, error)
	// Delete withdraws a request that is still pending.
	Delete(ctx context.Context, id string) error
	ListRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, error)

	GetPolicy(ctx context.Context) (Policy, error)
	UpdatePolicy(ctx context.Context, req PolicyRequest) (Policy, error)
}
