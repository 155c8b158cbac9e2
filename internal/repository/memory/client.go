package memory

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
)

type clientRepository struct {
	s *Store
}

func NewClientRepository(s *Store) client.ClientRepository {
	return &clientRepository{s: s}
}

func (r *clientRepository) Create(ctx context.Context, c client.Client) (client.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.clients {
		if existing.Name == c.Name {
			return client.Client{}, client.ErrClientNameExists
		}
	}
	if c.ID == "" {
		c.ID = newID()
	}
	r.s.stamp(&c.CreatedAt, &c.UpdatedAt)
	r.s.clients[c.ID] = c
	return c, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (client.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clients[id]
	if !ok {
		return client.Client{}, client.ErrClientNotFound
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]client.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return sortedValues(r.s.clients, func(a, b client.Client) bool { return a.Name < b.Name }), nil
}

func (r *clientRepository) Update(ctx context.Context, req client.UpdateClientRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clients[req.ID]
	if !ok {
		return client.ErrClientNotFound
	}
	if req.Name != nil {
		for id, existing := range r.s.clients {
			if id != c.ID && existing.Name == *req.Name {
				return client.ErrClientNameExists
			}
		}
		c.Name = *req.Name
	}
	if req.Timezone != nil {
		if *req.Timezone == "" {
			c.Timezone = nil
		} else {
			c.Timezone = ptr(*req.Timezone)
		}
	}
	r.s.stamp(&c.CreatedAt, &c.UpdatedAt)
	r.s.clients[c.ID] = c
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.clients[id]; !ok {
		return client.ErrClientNotFound
	}
	for _, u := range r.s.users {
		if u.ClientID != nil && *u.ClientID == id {
			return client.ErrClientInUse
		}
	}
	for _, b := range r.s.branches {
		if b.ClientID == id {
			return client.ErrClientInUse
		}
	}
	for _, sh := range r.s.shifts {
		if sh.ClientID == id {
			return client.ErrClientInUse
		}
	}
	for _, lt := range r.s.leaveTypes {
		if lt.ClientID == id {
			return client.ErrClientInUse
		}
	}
	delete(r.s.clients, id)
	return nil
}
