package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

// join fills the display fields. Callers hold the lock.
func (r *employeeRepository) join(e employee.Employee) employee.Employee {
	if u, ok := r.s.users[e.UserID]; ok {
		e.Name = u.Name
		e.Email = u.Email
		e.Role = string(u.Role)
	}
	e.BranchName, e.ShiftName = nil, nil
	if e.BranchID != nil {
		if b, ok := r.s.branches[*e.BranchID]; ok {
			e.BranchName = ptr(b.Name)
		}
	}
	if e.ShiftID != nil {
		if sh, ok := r.s.shifts[*e.ShiftID]; ok {
			e.ShiftName = ptr(sh.Name)
		}
	}
	return e
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.employees {
		if existing.UserID == e.UserID {
			return employee.Employee{}, employee.ErrProfileExists
		}
	}
	if e.ID == "" {
		e.ID = newID()
	}
	r.s.stamp(&e.CreatedAt, &e.UpdatedAt)
	r.s.employees[e.ID] = e
	return r.join(e), nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.join(e), nil
}

func (r *employeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.employees {
		if e.UserID == userID {
			return r.join(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []employee.Employee
	for _, e := range r.s.employees {
		if filter.ClientID != "" && e.ClientID != filter.ClientID {
			continue
		}
		if filter.BranchID != nil && (e.BranchID == nil || *e.BranchID != *filter.BranchID) {
			continue
		}
		if filter.ShiftID != nil && (e.ShiftID == nil || *e.ShiftID != *filter.ShiftID) {
			continue
		}
		e = r.join(e)
		if filter.Search != nil {
			q := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Email), q) {
				continue
			}
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.employees[e.ID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	existing.BranchID = e.BranchID
	existing.ShiftID = e.ShiftID
	existing.Designation = e.Designation
	r.s.stamp(&existing.CreatedAt, &existing.UpdatedAt)
	r.s.employees[e.ID] = existing
	return nil
}

func (r *employeeRepository) Count(ctx context.Context, clientID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, e := range r.s.employees {
		if clientID == "" || e.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

func (r *employeeRepository) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, e := range r.s.employees {
		if e.BranchID != nil && *e.BranchID == branchID {
			n++
		}
	}
	return n, nil
}

func (r *employeeRepository) CountByShift(ctx context.Context, shiftID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, e := range r.s.employees {
		if e.ShiftID != nil && *e.ShiftID == shiftID {
			n++
		}
	}
	return n, nil
}
