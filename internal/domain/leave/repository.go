package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	ListByClient(ctx context.Context, clientID string) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
	Delete(ctx context.Context, id string) error
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)

	// Review moves a PENDING request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Review(ctx context.Context, id string, status RequestStatus, reviewerID string, note *string, at time.Time) (LeaveRequest, error)

	// HasOverlap reports whether the employee has a pending or approved
	// request touching [start, end].
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	// CountPending counts pending requests, for every client when clientID is empty.
	CountPending(ctx context.Context, clientID string) (int64, error)
}
