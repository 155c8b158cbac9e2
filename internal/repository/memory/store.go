// Package memory keeps every repository in process memory. It backs the
// memory storage driver and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// Store holds all tables behind one lock.
type Store struct {
	mu sync.RWMutex

	clients       map[string]client.Client
	users         map[string]user.User
	branches      map[string]branch.Branch
	shifts        map[string]shift.Shift
	employees     map[string]employee.Employee
	records       []attendance.Record // creation order
	leaveTypes    map[string]leave.LeaveType
	leaveRequests []leave.LeaveRequest // creation order

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		clients:    make(map[string]client.Client),
		users:      make(map[string]user.User),
		branches:   make(map[string]branch.Branch),
		shifts:     make(map[string]shift.Shift),
		employees:  make(map[string]employee.Employee),
		leaveTypes: make(map[string]leave.LeaveType),
		now:        time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Store) stamp(created *time.Time, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

type transactor struct{}

// NewTransactor returns a Transactor that runs fn directly. The memory store
// has no rollback, so a failing fn keeps the writes it already made.
func NewTransactor() database.Transactor {
	return transactor{}
}

func (transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func sortedValues[K comparable, V any](m map[K]V, less func(a, b V) bool) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func ptr[T any](v T) *T {
	return &v
}
