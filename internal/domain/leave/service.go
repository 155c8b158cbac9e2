package leave

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type LeaveService interface {
	// Leave types
	CreateType(ctx context.Context, principal auth.Principal, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListTypes(ctx context.Context, principal auth.Principal, clientID string) ([]LeaveTypeResponse, error)
	UpdateType(ctx context.Context, principal auth.Principal, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	DeleteType(ctx context.Context, principal auth.Principal, id string) error

	// Leave requests
	CreateRequest(ctx context.Context, principal auth.Principal, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, principal auth.Principal) ([]LeaveRequestResponse, error)
	ListRequests(ctx context.Context, principal auth.Principal, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	Approve(ctx context.Context, principal auth.Principal, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, principal auth.Principal, req ReviewLeaveRequest) (LeaveRequestResponse, error)
}
