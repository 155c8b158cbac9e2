package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	database.Transactor
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	clientRepo   client.ClientRepository
	branchRepo   branch.BranchRepository
	shiftRepo    shift.ShiftRepository
	passwordCost int
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	clientRepo client.ClientRepository,
	branchRepo branch.BranchRepository,
	shiftRepo shift.ShiftRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		Transactor:   transactor,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		branchRepo:   branchRepo,
		shiftRepo:    shiftRepo,
		passwordCost: bcrypt.DefaultCost,
	}
}

// checkAssignment verifies that the branch and shift exist and belong to clientID.
func (s *EmployeeServiceImpl) checkAssignment(ctx context.Context, clientID string, branchID, shiftID *string) error {
	if branchID != nil {
		b, err := s.branchRepo.GetByID(ctx, *branchID)
		if err != nil {
			return err
		}
		if b.ClientID != clientID {
			return employee.ErrBranchNotInClient
		}
	}
	if shiftID != nil {
		sh, err := s.shiftRepo.GetByID(ctx, *shiftID)
		if err != nil {
			return err
		}
		if sh.ClientID != clientID {
			return employee.ErrShiftNotInClient
		}
	}
	return nil
}

// emptyToNil turns "" into nil so an empty id means "unassigned".
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, principal auth.Principal, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := principal.Require(user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	clientID, err := principal.ScopeClient(req.ClientID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if clientID == "" {
		return employee.EmployeeResponse{}, user.ErrClientIDRequired
	}
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	branchID, shiftID := emptyToNil(req.BranchID), emptyToNil(req.ShiftID)
	if err := s.checkAssignment(ctx, clientID, branchID, shiftID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.passwordCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created employee.Employee
	err = s.WithinTransaction(ctx, func(txCtx context.Context) error {
		newUser, err := s.userRepo.Create(txCtx, user.User{
			ClientID:     &clientID,
			Name:         strings.TrimSpace(req.Name),
			Email:        req.Email,
			PasswordHash: string(hashed),
			Role:         user.Role(req.Role),
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return employee.ErrEmailExists
			}
			return err
		}

		created, err = s.employeeRepo.Create(txCtx, employee.Employee{
			UserID:      newUser.ID,
			ClientID:    clientID,
			BranchID:    branchID,
			ShiftID:     shiftID,
			Designation: req.Designation,
		})
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(created), nil
}

// load fetches an employee visible to principal. Employees of other
// clients are reported as missing.
func (s *EmployeeServiceImpl) load(ctx context.Context, principal auth.Principal, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !principal.CanAccessClient(emp.ClientID) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, principal auth.Principal, id string) (employee.EmployeeResponse, error) {
	if id != principal.EmployeeID {
		if err := principal.Require(user.PermissionEmployeeViewAll); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	emp, err := s.load(ctx, principal, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, principal auth.Principal, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := principal.Require(user.PermissionEmployeeViewAll); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	clientID, err := principal.ScopeClient(filter.ClientID)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	filter.ClientID = clientID

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, e := range employees {
		resp.Employees = append(resp.Employees, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, principal auth.Principal, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := principal.Require(user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.load(ctx, principal, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.BranchID != nil {
		emp.BranchID = emptyToNil(req.BranchID)
	}
	if req.ShiftID != nil {
		emp.ShiftID = emptyToNil(req.ShiftID)
	}
	if req.Designation != nil {
		emp.Designation = req.Designation
	}
	if err := s.checkAssignment(ctx, emp.ClientID, emp.BranchID, emp.ShiftID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	err = s.WithinTransaction(ctx, func(txCtx context.Context) error {
		if req.Name != nil {
			if err := s.userRepo.UpdateName(txCtx, emp.UserID, strings.TrimSpace(*req.Name)); err != nil {
				return err
			}
		}
		return s.employeeRepo.Update(txCtx, emp)
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, emp.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Delete implements employee.EmployeeService. The login user is removed
// and takes the profile and its history with it.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if err := principal.Require(user.PermissionEmployeeManage); err != nil {
		return err
	}

	emp, err := s.load(ctx, principal, id)
	if err != nil {
		return err
	}
	if emp.UserID == principal.UserID {
		return employee.ErrCannotDeleteYourself
	}

	return s.userRepo.Delete(ctx, emp.UserID)
}

// GetMyProfile implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMyProfile(ctx context.Context, principal auth.Principal) (employee.EmployeeResponse, error) {
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}
