package master

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type masterServiceImpl struct {
	clientRepo client.ClientRepository
	branchRepo branch.BranchRepository
	shiftRepo  shift.ShiftRepository
}

func NewMasterService(
	clientRepo client.ClientRepository,
	branchRepo branch.BranchRepository,
	shiftRepo shift.ShiftRepository,
) master.MasterService {
	return &masterServiceImpl{
		clientRepo: clientRepo,
		branchRepo: branchRepo,
		shiftRepo:  shiftRepo,
	}
}

// targetClient resolves and checks the client a new row is created for.
func (s *masterServiceImpl) targetClient(ctx context.Context, principal auth.Principal, requested string) (string, error) {
	clientID, err := principal.ScopeClient(requested)
	if err != nil {
		return "", err
	}
	if clientID == "" {
		return "", user.ErrClientIDRequired
	}
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return "", err
	}
	return clientID, nil
}

// ==================== BRANCH OPERATIONS ====================

func (s *masterServiceImpl) CreateBranch(ctx context.Context, principal auth.Principal, req branch.CreateBranchRequest) (branch.BranchResponse, error) {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return branch.BranchResponse{}, err
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	clientID, err := s.targetClient(ctx, principal, req.ClientID)
	if err != nil {
		return branch.BranchResponse{}, err
	}

	entity := branch.Branch{
		ClientID:     clientID,
		Name:         strings.TrimSpace(req.Name),
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: branch.DefaultRadiusMeters,
		Timezone:     req.Timezone,
	}
	if req.RadiusMeters != nil {
		entity.RadiusMeters = *req.RadiusMeters
	}

	created, err := s.branchRepo.Create(ctx, entity)
	if err != nil {
		return branch.BranchResponse{}, err
	}

	return branch.NewBranchResponse(created), nil
}

// loadBranch fetches a branch the principal may see. Branches of other
// clients are reported as missing.
func (s *masterServiceImpl) loadBranch(ctx context.Context, principal auth.Principal, id string) (branch.Branch, error) {
	entity, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return branch.Branch{}, err
	}
	if !principal.CanAccessClient(entity.ClientID) {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return entity, nil
}

func (s *masterServiceImpl) GetBranch(ctx context.Context, principal auth.Principal, id string) (branch.BranchResponse, error) {
	if err := principal.Require(user.PermissionMasterView); err != nil {
		return branch.BranchResponse{}, err
	}

	entity, err := s.loadBranch(ctx, principal, id)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return branch.NewBranchResponse(entity), nil
}

func (s *masterServiceImpl) ListBranches(ctx context.Context, principal auth.Principal, clientID string) ([]branch.BranchResponse, error) {
	if err := principal.Require(user.PermissionMasterView); err != nil {
		return nil, err
	}

	scoped, err := principal.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}

	entities, err := s.branchRepo.GetByClientID(ctx, scoped)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	responses := make([]branch.BranchResponse, 0, len(entities))
	for _, e := range entities {
		responses = append(responses, branch.NewBranchResponse(e))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateBranch(ctx context.Context, principal auth.Principal, req branch.UpdateBranchRequest) (branch.BranchResponse, error) {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return branch.BranchResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return branch.BranchResponse{}, err
	}

	entity, err := s.loadBranch(ctx, principal, req.ID)
	if err != nil {
		return branch.BranchResponse{}, err
	}

	req.Apply(&entity)
	entity.Name = strings.TrimSpace(entity.Name)

	if err := s.branchRepo.Update(ctx, entity); err != nil {
		return branch.BranchResponse{}, err
	}

	updated, err := s.branchRepo.GetByID(ctx, entity.ID)
	if err != nil {
		return branch.BranchResponse{}, err
	}
	return branch.NewBranchResponse(updated), nil
}

func (s *masterServiceImpl) DeleteBranch(ctx context.Context, principal auth.Principal, id string) error {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return err
	}
	if _, err := s.loadBranch(ctx, principal, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}

// ==================== SHIFT OPERATIONS ====================

func (s *masterServiceImpl) CreateShift(ctx context.Context, principal auth.Principal, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	clientID, err := s.targetClient(ctx, principal, req.ClientID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		ClientID:           clientID,
		Name:               strings.TrimSpace(req.Name),
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		GracePeriodMinutes: req.GracePeriodMinutes,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	return shift.NewShiftResponse(created), nil
}

func (s *masterServiceImpl) loadShift(ctx context.Context, principal auth.Principal, id string) (shift.Shift, error) {
	entity, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.Shift{}, err
	}
	if !principal.CanAccessClient(entity.ClientID) {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return entity, nil
}

func (s *masterServiceImpl) GetShift(ctx context.Context, principal auth.Principal, id string) (shift.ShiftResponse, error) {
	if err := principal.Require(user.PermissionMasterView); err != nil {
		return shift.ShiftResponse{}, err
	}

	entity, err := s.loadShift(ctx, principal, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(entity), nil
}

func (s *masterServiceImpl) ListShifts(ctx context.Context, principal auth.Principal, clientID string) ([]shift.ShiftResponse, error) {
	if err := principal.Require(user.PermissionMasterView); err != nil {
		return nil, err
	}

	scoped, err := principal.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}

	entities, err := s.shiftRepo.GetByClientID(ctx, scoped)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(entities))
	for _, e := range entities {
		responses = append(responses, shift.NewShiftResponse(e))
	}
	return responses, nil
}

func (s *masterServiceImpl) UpdateShift(ctx context.Context, principal auth.Principal, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	entity, err := s.loadShift(ctx, principal, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	req.Apply(&entity)
	entity.Name = strings.TrimSpace(entity.Name)

	if err := s.shiftRepo.Update(ctx, entity); err != nil {
		return shift.ShiftResponse{}, err
	}

	updated, err := s.shiftRepo.GetByID(ctx, entity.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(updated), nil
}

func (s *masterServiceImpl) DeleteShift(ctx context.Context, principal auth.Principal, id string) error {
	if err := principal.Require(user.PermissionMasterManage); err != nil {
		return err
	}
	if _, err := s.loadShift(ctx, principal, id); err != nil {
		return err
	}
	return s.shiftRepo.Delete(ctx, id)
}
