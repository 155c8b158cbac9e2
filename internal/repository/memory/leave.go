package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
)

type leaveTypeRepository struct {
	s *Store
}

func NewLeaveTypeRepository(s *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{s: s}
}

func (r *leaveTypeRepository) nameTaken(lt leave.LeaveType) bool {
	for id, existing := range r.s.leaveTypes {
		if id != lt.ID && existing.ClientID == lt.ClientID && existing.Name == lt.Name {
			return true
		}
	}
	return false
}

func (r *leaveTypeRepository) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if lt.ID == "" {
		lt.ID = newID()
	}
	if r.nameTaken(lt) {
		return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
	}
	r.s.stamp(&lt.CreatedAt, &lt.UpdatedAt)
	r.s.leaveTypes[lt.ID] = lt
	return lt, nil
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lt, ok := r.s.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *leaveTypeRepository) ListByClient(ctx context.Context, clientID string) ([]leave.LeaveType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.LeaveType
	for _, lt := range sortedValues(r.s.leaveTypes, func(a, b leave.LeaveType) bool { return a.Name < b.Name }) {
		if clientID == "" || lt.ClientID == clientID {
			out = append(out, lt)
		}
	}
	return out, nil
}

func (r *leaveTypeRepository) Update(ctx context.Context, lt leave.LeaveType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.leaveTypes[lt.ID]
	if !ok {
		return leave.ErrLeaveTypeNotFound
	}
	if r.nameTaken(lt) {
		return leave.ErrLeaveTypeNameExists
	}
	lt.CreatedAt = existing.CreatedAt
	r.s.stamp(&lt.CreatedAt, &lt.UpdatedAt)
	r.s.leaveTypes[lt.ID] = lt
	return nil
}

func (r *leaveTypeRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leaveTypes[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	for _, lr := range r.s.leaveRequests {
		if lr.LeaveTypeID == id {
			return leave.ErrLeaveTypeInUse
		}
	}
	delete(r.s.leaveTypes, id)
	return nil
}

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

// join fills the display fields. Callers hold the lock.
func (r *leaveRequestRepository) join(lr leave.LeaveRequest) leave.LeaveRequest {
	if e, ok := r.s.employees[lr.EmployeeID]; ok {
		if u, ok := r.s.users[e.UserID]; ok {
			lr.EmployeeName = u.Name
		}
	}
	if lt, ok := r.s.leaveTypes[lr.LeaveTypeID]; ok {
		lr.LeaveTypeName = lt.Name
	}
	return lr
}

func (r *leaveRequestRepository) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if lr.ID == "" {
		lr.ID = newID()
	}
	if lr.Status == "" {
		lr.Status = leave.StatusPending
	}
	r.s.stamp(&lr.CreatedAt, &lr.UpdatedAt)
	r.s.leaveRequests = append(r.s.leaveRequests, lr)
	return r.join(lr), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, lr := range r.s.leaveRequests {
		if lr.ID == id {
			return r.join(lr), nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.LeaveRequest
	for i := len(r.s.leaveRequests) - 1; i >= 0; i-- {
		lr := r.s.leaveRequests[i]
		if filter.ClientID != "" && lr.ClientID != filter.ClientID {
			continue
		}
		if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(lr.Status) != *filter.Status {
			continue
		}
		out = append(out, r.join(lr))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *leaveRequestRepository) Review(ctx context.Context, id string, status leave.RequestStatus, reviewerID string, note *string, at time.Time) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, lr := range r.s.leaveRequests {
		if lr.ID != id {
			continue
		}
		if lr.Status != leave.StatusPending {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
		}
		lr.Status = status
		lr.ReviewedBy = ptr(reviewerID)
		lr.ReviewedAt = ptr(at)
		lr.ReviewNote = note
		lr.UpdatedAt = at
		r.s.leaveRequests[i] = lr
		return r.join(lr), nil
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (r *leaveRequestRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, lr := range r.s.leaveRequests {
		if lr.EmployeeID != employeeID || lr.Status == leave.StatusRejected {
			continue
		}
		if !lr.StartDate.After(end) && !lr.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *leaveRequestRepository) CountPending(ctx context.Context, clientID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, lr := range r.s.leaveRequests {
		if lr.Status == leave.StatusPending && (clientID == "" || lr.ClientID == clientID) {
			n++
		}
	}
	return n, nil
}
