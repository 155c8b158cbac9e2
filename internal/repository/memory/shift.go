package memory

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
)

type shiftRepository struct {
	s *Store
}

func NewShiftRepository(s *Store) shift.ShiftRepository {
	return &shiftRepository{s: s}
}

func (r *shiftRepository) nameTaken(sh shift.Shift) bool {
	for id, existing := range r.s.shifts {
		if id != sh.ID && existing.ClientID == sh.ClientID && existing.Name == sh.Name {
			return true
		}
	}
	return false
}

func (r *shiftRepository) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if sh.ID == "" {
		sh.ID = newID()
	}
	if r.nameTaken(sh) {
		return shift.Shift{}, shift.ErrShiftNameExists
	}
	r.s.stamp(&sh.CreatedAt, &sh.UpdatedAt)
	r.s.shifts[sh.ID] = sh
	return sh, nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sh, ok := r.s.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

func (r *shiftRepository) GetByClientID(ctx context.Context, clientID string) ([]shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []shift.Shift
	for _, sh := range sortedValues(r.s.shifts, func(a, b shift.Shift) bool { return a.StartTime < b.StartTime }) {
		if clientID == "" || sh.ClientID == clientID {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (r *shiftRepository) Update(ctx context.Context, sh shift.Shift) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.shifts[sh.ID]
	if !ok {
		return shift.ErrShiftNotFound
	}
	if r.nameTaken(sh) {
		return shift.ErrShiftNameExists
	}
	sh.CreatedAt = existing.CreatedAt
	r.s.stamp(&sh.CreatedAt, &sh.UpdatedAt)
	r.s.shifts[sh.ID] = sh
	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	for _, e := range r.s.employees {
		if e.ShiftID != nil && *e.ShiftID == id {
			return shift.ErrShiftInUse
		}
	}
	delete(r.s.shifts, id)
	return nil
}
