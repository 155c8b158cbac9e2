package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type EmployeeService interface {
	Create(ctx context.Context, principal auth.Principal, req CreateEmployeeRequest) (EmployeeResponse, error)
	Get(ctx context.Context, principal auth.Principal, id string) (EmployeeResponse, error)
	List(ctx context.Context, principal auth.Principal, filter EmployeeFilter) (ListEmployeeResponse, error)
	Update(ctx context.Context, principal auth.Principal, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	GetMyProfile(ctx context.Context, principal auth.Principal) (EmployeeResponse, error)
}
