package memory

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
)

type branchRepository struct {
	s *Store
}

func NewBranchRepository(s *Store) branch.BranchRepository {
	return &branchRepository{s: s}
}

func (r *branchRepository) nameTaken(b branch.Branch) bool {
	for id, existing := range r.s.branches {
		if id != b.ID && existing.ClientID == b.ClientID && existing.Name == b.Name {
			return true
		}
	}
	return false
}

func (r *branchRepository) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if b.ID == "" {
		b.ID = newID()
	}
	if r.nameTaken(b) {
		return branch.Branch{}, branch.ErrBranchNameExists
	}
	r.s.stamp(&b.CreatedAt, &b.UpdatedAt)
	r.s.branches[b.ID] = b
	return b, nil
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (r *branchRepository) GetByClientID(ctx context.Context, clientID string) ([]branch.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []branch.Branch
	for _, b := range sortedValues(r.s.branches, func(a, b branch.Branch) bool { return a.Name < b.Name }) {
		if clientID == "" || b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *branchRepository) Update(ctx context.Context, b branch.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.branches[b.ID]
	if !ok {
		return branch.ErrBranchNotFound
	}
	if r.nameTaken(b) {
		return branch.ErrBranchNameExists
	}
	b.CreatedAt = existing.CreatedAt
	r.s.stamp(&b.CreatedAt, &b.UpdatedAt)
	r.s.branches[b.ID] = b
	return nil
}

func (r *branchRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.branches[id]; !ok {
		return branch.ErrBranchNotFound
	}
	for _, e := range r.s.employees {
		if e.BranchID != nil && *e.BranchID == id {
			return branch.ErrBranchInUse
		}
	}
	delete(r.s.branches, id)
	return nil
}
