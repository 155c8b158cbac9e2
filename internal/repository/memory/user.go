package memory

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) withEmployee(u user.User) user.User {
	for _, e := range r.s.employees {
		if e.UserID == u.ID {
			u.EmployeeID = ptr(e.ID)
			break
		}
	}
	return u
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return r.withEmployee(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.withEmployee(u), nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = newID()
	}
	newUser.Email = strings.ToLower(newUser.Email)
	r.s.stamp(&newUser.CreatedAt, &newUser.UpdatedAt)
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id string, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Name = name
	r.s.stamp(&u.CreatedAt, &u.UpdatedAt)
	r.s.users[id] = u
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.s.stamp(&u.CreatedAt, &u.UpdatedAt)
	r.s.users[userID] = u
	return nil
}

// Delete removes the user together with the employee profile and the
// records that belong to it.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.users, id)

	for empID, e := range r.s.employees {
		if e.UserID != id {
			continue
		}
		delete(r.s.employees, empID)

		records := r.s.records[:0]
		for _, rec := range r.s.records {
			if rec.EmployeeID != empID {
				records = append(records, rec)
			}
		}
		r.s.records = records

		requests := r.s.leaveRequests[:0]
		for _, lr := range r.s.leaveRequests {
			if lr.EmployeeID != empID {
				requests = append(requests, lr)
			}
		}
		r.s.leaveRequests = requests
	}
	for i, lr := range r.s.leaveRequests {
		if lr.ReviewedBy != nil && *lr.ReviewedBy == id {
			r.s.leaveRequests[i].ReviewedBy = nil
		}
	}
	return nil
}
