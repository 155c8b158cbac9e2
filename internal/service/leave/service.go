package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type LeaveServiceImpl struct {
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	clientRepo   client.ClientRepository
	now          func() time.Time
}

func NewLeaveService(
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	clientRepo client.ClientRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveTypeRepository:    leaveTypeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		employeeRepo:           employeeRepo,
		clientRepo:             clientRepo,
		now:                    time.Now,
	}
}

// loadType returns a leave type the principal may see. Types of other
// clients are reported as missing.
func (l *LeaveServiceImpl) loadType(ctx context.Context, principal auth.Principal, id string) (leave.LeaveType, error) {
	lt, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveType{}, err
	}
	if !principal.CanAccessClient(lt.ClientID) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

// CreateType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateType(ctx context.Context, principal auth.Principal, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := principal.Require(user.PermissionLeaveManageTypes); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	clientID, err := principal.ScopeClient(req.ClientID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if clientID == "" {
		return leave.LeaveTypeResponse{}, user.ErrClientIDRequired
	}
	if _, err := l.clientRepo.GetByID(ctx, clientID); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		ClientID:    clientID,
		Name:        req.Name,
		DaysAllowed: req.DaysAllowed,
		IsPaid:      req.IsPaid,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// ListTypes implements leave.LeaveService. Every member of a client may
// list its leave types.
func (l *LeaveServiceImpl) ListTypes(ctx context.Context, principal auth.Principal, clientID string) ([]leave.LeaveTypeResponse, error) {
	clientID, err := principal.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}

	types, err := l.LeaveTypeRepository.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, leave.NewLeaveTypeResponse(lt))
	}
	return responses, nil
}

// UpdateType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateType(ctx context.Context, principal auth.Principal, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := principal.Require(user.PermissionLeaveManageTypes); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt, err := l.loadType(ctx, principal, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.DaysAllowed != nil {
		lt.DaysAllowed = *req.DaysAllowed
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}

	if err := l.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(lt), nil
}

// DeleteType implements leave.LeaveService.
func (l *LeaveServiceImpl) DeleteType(ctx context.Context, principal auth.Principal, id string) error {
	if err := principal.Require(user.PermissionLeaveManageTypes); err != nil {
		return err
	}
	if _, err := l.loadType(ctx, principal, id); err != nil {
		return err
	}
	return l.LeaveTypeRepository.Delete(ctx, id)
}

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, principal auth.Principal, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveCreate); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := l.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if lt.ClientID != emp.ClientID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeNotFound
	}

	start, end := req.Dates()
	request := leave.LeaveRequest{
		EmployeeID:  emp.ID,
		ClientID:    emp.ClientID,
		LeaveTypeID: lt.ID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	}
	if lt.DaysAllowed > 0 && request.Days() > lt.DaysAllowed {
		return leave.LeaveRequestResponse{}, leave.ErrExceedsAllowedDays
	}

	overlap, err := l.LeaveRequestRepository.HasOverlap(ctx, emp.ID, start, end)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if overlap {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestOverlap
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(created), nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, principal auth.Principal) ([]leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewOwn); err != nil {
		return nil, err
	}
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return nil, err
	}

	filter := leave.LeaveRequestFilter{EmployeeID: &employeeID}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return l.list(ctx, filter)
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, principal auth.Principal, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveViewAll); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	clientID, err := principal.ScopeClient(filter.ClientID)
	if err != nil {
		return nil, err
	}
	filter.ClientID = clientID
	return l.list(ctx, filter)
}

func (l *LeaveServiceImpl) list(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return responses, nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, principal auth.Principal, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	return l.review(ctx, principal, req, leave.StatusApproved)
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, principal auth.Principal, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	return l.review(ctx, principal, req, leave.StatusRejected)
}

func (l *LeaveServiceImpl) review(ctx context.Context, principal auth.Principal, req leave.ReviewLeaveRequest, status leave.RequestStatus) (leave.LeaveRequestResponse, error) {
	if err := principal.Require(user.PermissionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !principal.CanAccessClient(request.ClientID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	if principal.EmployeeID != "" && principal.EmployeeID == request.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrCannotReviewOwnRequest
	}

	reviewed, err := l.LeaveRequestRepository.Review(ctx, request.ID, status, principal.UserID, req.Note, l.now())
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) || errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to review leave request: %w", err)
	}
	return leave.NewLeaveRequestResponse(reviewed), nil
}
