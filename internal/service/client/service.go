package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type ClientServiceImpl struct {
	client.ClientRepository
}

func NewClientService(clientRepository client.ClientRepository) client.ClientService {
	return &ClientServiceImpl{ClientRepository: clientRepository}
}

// Create implements client.ClientService.
func (c *ClientServiceImpl) Create(ctx context.Context, principal auth.Principal, req client.CreateClientRequest) (client.ClientResponse, error) {
	if err := principal.Require(user.PermissionClientManage); err != nil {
		return client.ClientResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return client.ClientResponse{}, err
	}

	created, err := c.ClientRepository.Create(ctx, client.Client{
		Name:     strings.TrimSpace(req.Name),
		Timezone: req.Timezone,
	})
	if err != nil {
		return client.ClientResponse{}, err
	}
	return client.NewClientResponse(created), nil
}

// Get implements client.ClientService. Members of a client may read it.
func (c *ClientServiceImpl) Get(ctx context.Context, principal auth.Principal, id string) (client.ClientResponse, error) {
	if !principal.CanAccessClient(id) {
		return client.ClientResponse{}, auth.ErrForbidden
	}

	found, err := c.ClientRepository.GetByID(ctx, id)
	if err != nil {
		return client.ClientResponse{}, err
	}
	return client.NewClientResponse(found), nil
}

// List implements client.ClientService.
func (c *ClientServiceImpl) List(ctx context.Context, principal auth.Principal) ([]client.ClientResponse, error) {
	if err := principal.Require(user.PermissionClientManage); err != nil {
		return nil, err
	}

	clients, err := c.ClientRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	responses := make([]client.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		responses = append(responses, client.NewClientResponse(cl))
	}
	return responses, nil
}

// Update implements client.ClientService. A client admin may rename their
// own client and change its timezone.
func (c *ClientServiceImpl) Update(ctx context.Context, principal auth.Principal, req client.UpdateClientRequest) (client.ClientResponse, error) {
	if !principal.IsSuperAdmin() && !(principal.Role == user.RoleClientAdmin && principal.ClientID == req.ID) {
		return client.ClientResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return client.ClientResponse{}, err
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	if err := c.ClientRepository.Update(ctx, req); err != nil {
		return client.ClientResponse{}, err
	}

	updated, err := c.ClientRepository.GetByID(ctx, req.ID)
	if err != nil {
		return client.ClientResponse{}, err
	}
	return client.NewClientResponse(updated), nil
}

// Delete implements client.ClientService.
func (c *ClientServiceImpl) Delete(ctx context.Context, principal auth.Principal, id string) error {
	if err := principal.Require(user.PermissionClientManage); err != nil {
		return err
	}
	return c.ClientRepository.Delete(ctx, id)
}
