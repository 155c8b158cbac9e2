package client

import "context"

type ClientRepository interface {
	Create(ctx context.Context, client Client) (Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, req UpdateClientRequest) error
	Delete(ctx context.Context, id string) error
}
