package client

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type ClientService interface {
	Create(ctx context.Context, principal auth.Principal, req CreateClientRequest) (ClientResponse, error)
	Get(ctx context.Context, principal auth.Principal, id string) (ClientResponse, error)
	List(ctx context.Context, principal auth.Principal) ([]ClientResponse, error)
	Update(ctx context.Context, principal auth.Principal, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
}
