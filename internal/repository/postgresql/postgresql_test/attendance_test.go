package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEmployee(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) employee.Employee {
	clientID := createTestClient(t, ctx, setup)
	u := createTestUser(t, ctx, setup, clientID, "worker@example.com")

	emp, err := postgresql.NewEmployeeRepository(setup.DB).Create(ctx, employee.Employee{UserID: u.ID, ClientID: clientID})
	require.NoError(t, err)
	return emp
}

func openRecord(emp employee.Employee, at time.Time) attendance.Record {
	return attendance.Record{
		EmployeeID:   emp.ID,
		ClientID:     emp.ClientID,
		Date:         attendance.WorkDay(at, time.UTC),
		InTime:       &at,
		LocationType: attendance.LocationOffice,
		Latitude:     -6.2,
		Longitude:    106.8,
		Status:       attendance.StatusPresent,
	}
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_CreateOpen_RejectsSecondOpenRecord(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	now := time.Now().UTC()

	created, err := repo.CreateOpen(ctx, openRecord(emp, now))
	require.NoError(t, err)
	assert.True(t, created.IsOpen())

	_, err = repo.CreateOpen(ctx, openRecord(emp, now.Add(time.Minute)))
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)
}

func TestAttendanceRepository_CloseLatest(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	now := time.Now().UTC()
	day := now.Format(attendance.DateLayout)

	_, err := repo.CloseLatest(ctx, emp.ID, day, now, nil)
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	_, err = repo.CreateOpen(ctx, openRecord(emp, now))
	require.NoError(t, err)

	out := &geofence.Point{Latitude: -6.3, Longitude: 106.9}
	closed, err := repo.CloseLatest(ctx, emp.ID, day, now.Add(time.Hour), out)
	require.NoError(t, err)
	assert.NotNil(t, closed.OutTime)
	require.NotNil(t, closed.OutLatitude)
	assert.Equal(t, -6.3, *closed.OutLatitude)

	_, err = repo.CloseLatest(ctx, emp.ID, day, now.Add(2*time.Hour), out)
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	// A new cycle may open once the previous one is closed.
	_, err = repo.CreateOpen(ctx, openRecord(emp, now.Add(3*time.Hour)))
	assert.NoError(t, err)
}

func TestAttendanceRepository_CreateOpen_Concurrent(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp := createTestEmployee(t, ctx, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	now := time.Now().UTC()

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CreateOpen(ctx, openRecord(emp, now)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	open, err := repo.CountOpen(ctx, emp.ClientID, now.Format(attendance.DateLayout))
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}
