package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, employee Employee) error

	// Count returns the number of employees of a client, or of every client when clientID is empty.
	Count(ctx context.Context, clientID string) (int64, error)
	CountByBranch(ctx context.Context, branchID string) (int64, error)
	CountByShift(ctx context.Context, shiftID string) (int64, error)
}
