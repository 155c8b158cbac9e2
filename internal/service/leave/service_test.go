package leave

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	svc      leave.LeaveService
	acme     string
	other    string
	admin    auth.Principal
	employee auth.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	clients := memory.NewClientRepository(store)
	employees := memory.NewEmployeeRepository(store)

	acme, err := clients.Create(ctx, client.Client{Name: "Acme"})
	require.NoError(t, err)
	other, err := clients.Create(ctx, client.Client{Name: "Other"})
	require.NoError(t, err)

	u, err := memory.NewUserRepository(store).Create(ctx, user.User{
		ClientID: &acme.ID,
		Name:     "Budi",
		Email:    "budi@acme.test",
		Role:     user.RoleEmployee,
	})
	require.NoError(t, err)
	emp, err := employees.Create(ctx, employee.Employee{UserID: u.ID, ClientID: acme.ID})
	require.NoError(t, err)

	return fixture{
		store: store,
		svc:   NewLeaveService(memory.NewLeaveTypeRepository(store), memory.NewLeaveRequestRepository(store), employees, clients),
		acme:  acme.ID,
		other: other.ID,
		admin: auth.Principal{UserID: "admin", Role: user.RoleClientAdmin, ClientID: acme.ID},
		employee: auth.Principal{
			UserID:     u.ID,
			Role:       user.RoleEmployee,
			ClientID:   acme.ID,
			EmployeeID: emp.ID,
		},
	}
}

func (f fixture) createType(t *testing.T, name string, days int) leave.LeaveTypeResponse {
	t.Helper()
	lt, err := f.svc.CreateType(context.Background(), f.admin, leave.CreateLeaveTypeRequest{Name: name, DaysAllowed: days, IsPaid: true})
	require.NoError(t, err)
	return lt
}

func (f fixture) request(t *testing.T, typeID, start, end string) (leave.LeaveRequestResponse, error) {
	t.Helper()
	return f.svc.CreateRequest(context.Background(), f.employee, leave.CreateLeaveRequestRequest{
		LeaveTypeID: typeID,
		StartDate:   start,
		EndDate:     end,
	})
}

func TestLeaveService_Types(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	annual := f.createType(t, "Annual", 12)
	assert.Equal(t, f.acme, annual.ClientID)

	_, err := f.svc.CreateType(ctx, f.admin, leave.CreateLeaveTypeRequest{Name: "Annual"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	_, err = f.svc.CreateType(ctx, f.employee, leave.CreateLeaveTypeRequest{Name: "Sick"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	types, err := f.svc.ListTypes(ctx, f.employee, "")
	require.NoError(t, err)
	require.Len(t, types, 1)

	days := 14
	updated, err := f.svc.UpdateType(ctx, f.admin, leave.UpdateLeaveTypeRequest{ID: annual.ID, DaysAllowed: &days})
	require.NoError(t, err)
	assert.Equal(t, 14, updated.DaysAllowed)
	assert.Equal(t, "Annual", updated.Name)

	outsider := auth.Principal{UserID: "x", Role: user.RoleClientAdmin, ClientID: f.other}
	err = f.svc.DeleteType(ctx, outsider, annual.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	_, err = f.request(t, annual.ID, "2025-04-01", "2025-04-02")
	require.NoError(t, err)
	err = f.svc.DeleteType(ctx, f.admin, annual.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInUse)

	unused := f.createType(t, "Unpaid", 0)
	assert.NoError(t, f.svc.DeleteType(ctx, f.admin, unused.ID))
}

func TestLeaveService_CreateRequest(t *testing.T) {
	f := newFixture(t)
	annual := f.createType(t, "Annual", 3)

	created, err := f.request(t, annual.ID, "2025-04-01", "2025-04-03")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, 3, created.Days)
	assert.Equal(t, "Budi", created.EmployeeName)
	assert.Equal(t, "Annual", created.LeaveTypeName)

	t.Run("overlap", func(t *testing.T) {
		_, err := f.request(t, annual.ID, "2025-04-03", "2025-04-03")
		assert.ErrorIs(t, err, leave.ErrLeaveRequestOverlap)
	})

	t.Run("exceeds allowed days", func(t *testing.T) {
		_, err := f.request(t, annual.ID, "2025-05-01", "2025-05-04")
		assert.ErrorIs(t, err, leave.ErrExceedsAllowedDays)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.request(t, annual.ID, "2025-05-04", "2025-05-01")
		assert.Error(t, err)
	})

	t.Run("leave type of another client", func(t *testing.T) {
		root := auth.Principal{UserID: "root", Role: user.RoleSuperAdmin}
		foreign, err := f.svc.CreateType(context.Background(), root, leave.CreateLeaveTypeRequest{ClientID: f.other, Name: "Annual"})
		require.NoError(t, err)

		_, err = f.request(t, foreign.ID, "2025-06-01", "2025-06-01")
		assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
	})

	t.Run("admin without employee profile", func(t *testing.T) {
		_, err := f.svc.CreateRequest(context.Background(), f.admin, leave.CreateLeaveRequestRequest{
			LeaveTypeID: annual.ID, StartDate: "2025-07-01", EndDate: "2025-07-01",
		})
		assert.ErrorIs(t, err, auth.ErrNoEmployeeProfile)
	})
}

func TestLeaveService_Review(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annual := f.createType(t, "Annual", 0)

	first, err := f.request(t, annual.ID, "2025-04-01", "2025-04-01")
	require.NoError(t, err)
	second, err := f.request(t, annual.ID, "2025-04-10", "2025-04-11")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.employee, leave.ReviewLeaveRequest{ID: first.ID})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	approved, err := f.svc.Approve(ctx, f.admin, leave.ReviewLeaveRequest{ID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "admin", *approved.ReviewedBy)
	assert.NotNil(t, approved.ReviewedAt)

	_, err = f.svc.Reject(ctx, f.admin, leave.ReviewLeaveRequest{ID: first.ID})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	note := "busy week"
	rejected, err := f.svc.Reject(ctx, f.admin, leave.ReviewLeaveRequest{ID: second.ID, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", rejected.Status)
	assert.Equal(t, &note, rejected.ReviewNote)

	// Rejected days can be requested again.
	_, err = f.request(t, annual.ID, "2025-04-10", "2025-04-10")
	assert.NoError(t, err)

	outsider := auth.Principal{UserID: "x", Role: user.RoleClientAdmin, ClientID: f.other}
	_, err = f.svc.Approve(ctx, outsider, leave.ReviewLeaveRequest{ID: second.ID})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.Approve(ctx, f.admin, leave.ReviewLeaveRequest{ID: "missing"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_ReviewOwnRequest(t *testing.T) {
	f := newFixture(t)
	annual := f.createType(t, "Annual", 0)
	own, err := f.request(t, annual.ID, "2025-04-01", "2025-04-01")
	require.NoError(t, err)

	manager := f.employee
	manager.Role = user.RoleManager
	_, err = f.svc.Approve(context.Background(), manager, leave.ReviewLeaveRequest{ID: own.ID})
	assert.ErrorIs(t, err, leave.ErrCannotReviewOwnRequest)
}

func TestLeaveService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	annual := f.createType(t, "Annual", 0)

	for _, day := range []string{"2025-04-01", "2025-04-05", "2025-04-09"} {
		_, err := f.request(t, annual.ID, day, day)
		require.NoError(t, err)
	}

	mine, err := f.svc.ListMyRequests(ctx, f.employee)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "2025-04-09", mine[0].StartDate)

	_, err = f.svc.Approve(ctx, f.admin, leave.ReviewLeaveRequest{ID: mine[0].ID})
	require.NoError(t, err)

	pending := "PENDING"
	list, err := f.svc.ListRequests(ctx, f.admin, leave.LeaveRequestFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.svc.ListRequests(ctx, f.employee, leave.LeaveRequestFilter{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	outsider := auth.Principal{UserID: "x", Role: user.RoleClientAdmin, ClientID: f.other}
	list, err = f.svc.ListRequests(ctx, outsider, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
