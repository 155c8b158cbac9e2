package branch

import "context"

type BranchRepository interface {
	Create(ctx context.Context, branch Branch) (Branch, error)
	GetByID(ctx context.Context, id string) (Branch, error)
	GetByClientID(ctx context.Context, clientID string) ([]Branch, error)
	Update(ctx context.Context, branch Branch) error
	Delete(ctx context.Context, id string) error
}
