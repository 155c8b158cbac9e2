package master

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
)

type MasterService interface {
	// Branch operations
	CreateBranch(ctx context.Context, principal auth.Principal, req branch.CreateBranchRequest) (branch.BranchResponse, error)
	GetBranch(ctx context.Context, principal auth.Principal, id string) (branch.BranchResponse, error)
	ListBranches(ctx context.Context, principal auth.Principal, clientID string) ([]branch.BranchResponse, error)
	UpdateBranch(ctx context.Context, principal auth.Principal, req branch.UpdateBranchRequest) (branch.BranchResponse, error)
	DeleteBranch(ctx context.Context, principal auth.Principal, id string) error

	// Shift operations
	CreateShift(ctx context.Context, principal auth.Principal, req shift.CreateShiftRequest) (shift.ShiftResponse, error)
	GetShift(ctx context.Context, principal auth.Principal, id string) (shift.ShiftResponse, error)
	ListShifts(ctx context.Context, principal auth.Principal, clientID string) ([]shift.ShiftResponse, error)
	UpdateShift(ctx context.Context, principal auth.Principal, req shift.UpdateShiftRequest) (shift.ShiftResponse, error)
	DeleteShift(ctx context.Context, principal auth.Principal, id string) error
}
