package shift

import "context"

type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	GetByClientID(ctx context.Context, clientID string) ([]Shift, error)
	Update(ctx context.Context, shift Shift) error
	Delete(ctx context.Context, id string) error
}
