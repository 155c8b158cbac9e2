package attendance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	office  = geofence.Point{Latitude: 23.4144, Longitude: 88.4853}
	farAway = geofence.Point{Latitude: 23.5044, Longitude: 88.4853} // about 10km north
)

type fixture struct {
	store    *memory.Store
	svc      *AttendanceServiceImpl
	clientID string
	branch   branch.Branch
	shift    shift.Shift
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	clients := memory.NewClientRepository(store)
	branches := memory.NewBranchRepository(store)
	shifts := memory.NewShiftRepository(store)

	acme, err := clients.Create(ctx, client.Client{Name: "Acme"})
	require.NoError(t, err)

	lat, lng := office.Latitude, office.Longitude
	hq, err := branches.Create(ctx, branch.Branch{
		ClientID:     acme.ID,
		Name:         "HQ",
		Latitude:     &lat,
		Longitude:    &lng,
		RadiusMeters: 500,
	})
	require.NoError(t, err)

	grace := 15
	morning, err := shifts.Create(ctx, shift.Shift{
		ClientID:           acme.ID,
		Name:               "Morning",
		StartTime:          "09:00",
		EndTime:            "17:00",
		GracePeriodMinutes: &grace,
	})
	require.NoError(t, err)

	svc := NewAttendanceService(
		memory.NewAttendanceRepository(store),
		memory.NewEmployeeRepository(store),
		branches,
		clients,
		time.UTC,
	).(*AttendanceServiceImpl)

	f := &fixture{
		store:    store,
		svc:      svc,
		clientID: acme.ID,
		branch:   hq,
		shift:    morning,
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	svc.now = func() time.Time { return f.now }
	return f
}

// addEmployee creates a user with an employee profile. Empty branchID or
// shiftID leaves the profile unassigned.
func (f *fixture) addEmployee(t *testing.T, email, branchID, shiftID string) employee.Employee {
	t.Helper()

	ctx := context.Background()
	u, err := memory.NewUserRepository(f.store).Create(ctx, user.User{
		ClientID:     &f.clientID,
		Name:         email,
		Email:        email,
		PasswordHash: "x",
		Role:         user.RoleEmployee,
	})
	require.NoError(t, err)

	emp := employee.Employee{UserID: u.ID, ClientID: f.clientID}
	if branchID != "" {
		emp.BranchID = &branchID
	}
	if shiftID != "" {
		emp.ShiftID = &shiftID
	}
	created, err := memory.NewEmployeeRepository(f.store).Create(ctx, emp)
	require.NoError(t, err)
	return created
}

func (f *fixture) principal(emp employee.Employee) auth.Principal {
	return auth.Principal{
		UserID:     emp.UserID,
		Role:       user.RoleEmployee,
		ClientID:   f.clientID,
		EmployeeID: emp.ID,
	}
}

func at(p geofence.Point) *geofence.Point { return &p }

func TestPunchIn_InsideGeofence(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, f.shift.ID)

	rec, err := f.svc.PunchIn(context.Background(), emp.ID, at(office), attendance.LocationOffice)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.IsOpen())
	assert.Equal(t, "2025-03-10", rec.DayKey())
	assert.Equal(t, f.clientID, rec.ClientID)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, office.Latitude, rec.Latitude)
}

func TestPunchIn_OutsideGeofence(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	_, err := f.svc.PunchIn(context.Background(), emp.ID, at(farAway), attendance.LocationOffice)
	require.ErrorIs(t, err, attendance.ErrOutsideGeofence)

	var outside *attendance.OutsideGeofenceError
	require.True(t, errors.As(err, &outside))
	assert.InDelta(t, 10007, outside.DistanceMeters, 5)
	assert.Equal(t, 500.0, outside.RadiusMeters)

	status, err := f.svc.GetStatus(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.False(t, status.PunchedIn)
	assert.Nil(t, status.LastRecord)
}

func TestPunchIn_RemoteSkipsGeofence(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	rec, err := f.svc.PunchIn(context.Background(), emp.ID, at(farAway), attendance.LocationRemote)
	require.NoError(t, err)
	assert.Equal(t, attendance.LocationRemote, rec.LocationType)
}

func TestPunchIn_NoBranchIsUnrestricted(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", "", "")

	_, err := f.svc.PunchIn(context.Background(), emp.ID, at(farAway), "")
	assert.NoError(t, err)
}

func TestPunchIn_BranchWithoutLocationIsUnrestricted(t *testing.T) {
	f := newFixture(t)
	remote, err := memory.NewBranchRepository(f.store).Create(context.Background(), branch.Branch{
		ClientID:     f.clientID,
		Name:         "Field",
		RadiusMeters: 100,
	})
	require.NoError(t, err)
	emp := f.addEmployee(t, "budi@acme.test", remote.ID, "")

	_, err = f.svc.PunchIn(context.Background(), emp.ID, at(farAway), attendance.LocationOffice)
	assert.NoError(t, err)
}

func TestPunch_MissingLocation(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	_, err := f.svc.PunchIn(context.Background(), emp.ID, nil, attendance.LocationOffice)
	assert.ErrorIs(t, err, attendance.ErrMissingLocation)

	_, err = f.svc.PunchOut(context.Background(), emp.ID, nil)
	assert.ErrorIs(t, err, attendance.ErrMissingLocation)

	lat := 23.4144
	_, err = f.svc.Punch(context.Background(), f.principal(emp), attendance.PunchRequest{
		Latitude: &lat,
		Action:   attendance.ActionIn,
	})
	assert.ErrorIs(t, err, attendance.ErrMissingLocation)
}

func TestPunchIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PunchIn(context.Background(), "missing", at(office), attendance.LocationOffice)
	assert.ErrorIs(t, err, attendance.ErrEmployeeOrBranchNotFound)
}

func TestPunch_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, f.shift.ID)

	_, err := f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	require.NoError(t, err)

	_, err = f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)

	f.now = f.now.Add(8 * time.Hour)
	closed, err := f.svc.PunchOut(ctx, emp.ID, at(farAway))
	require.NoError(t, err)
	require.NotNil(t, closed.OutTime)
	assert.True(t, closed.OutTime.Equal(f.now))
	require.NotNil(t, closed.OutLatitude)
	assert.Equal(t, farAway.Latitude, *closed.OutLatitude)

	_, err = f.svc.PunchOut(ctx, emp.ID, at(office))
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	// A second cycle on the same day is allowed once the first is closed.
	_, err = f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	assert.NoError(t, err)
}

func TestPunchOut_WithoutPunchIn(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	_, err := f.svc.PunchOut(context.Background(), emp.ID, at(office))
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
}

func TestPunchIn_Concurrent(t *testing.T) {
	f := newFixture(t)
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	var succeeded, rejected atomic.Int32
	var g errgroup.Group
	for range 20 {
		g.Go(func() error {
			_, err := f.svc.PunchIn(context.Background(), emp.ID, at(office), attendance.LocationOffice)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, attendance.ErrAlreadyPunchedIn):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(19), rejected.Load())

	open, err := memory.NewAttendanceRepository(f.store).CountOpen(context.Background(), f.clientID, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	status, err := f.svc.GetStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, status.PunchedIn)
	assert.Equal(t, "2025-03-10", status.Date)

	_, err = f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	require.NoError(t, err)

	first, err := f.svc.GetStatus(ctx, emp.ID)
	require.NoError(t, err)
	second, err := f.svc.GetStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, first.PunchedIn)
	assert.Equal(t, first, second)

	_, err = f.svc.PunchOut(ctx, emp.ID, at(office))
	require.NoError(t, err)

	status, err = f.svc.GetStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, status.PunchedIn)
	require.NotNil(t, status.LastRecord)
	assert.NotNil(t, status.LastRecord.OutTime)
}

func TestWorkDay_FollowsBranchTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tz := "Asia/Jakarta"
	f.branch.Timezone = &tz
	require.NoError(t, memory.NewBranchRepository(f.store).Update(ctx, f.branch))
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	// 20:00 UTC is 03:00 the next morning in Jakarta.
	f.now = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	rec, err := f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", rec.DayKey())

	status, err := f.svc.GetStatus(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, status.PunchedIn)
	assert.Equal(t, "2025-03-11", status.Date)
}

func TestWorkDay_UnknownBranchTimezoneFallsBackToClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := "Mars/Olympus_Mons"
	f.branch.Timezone = &bad
	require.NoError(t, memory.NewBranchRepository(f.store).Update(ctx, f.branch))
	tz := "Asia/Jakarta"
	require.NoError(t, memory.NewClientRepository(f.store).Update(ctx, client.UpdateClientRequest{ID: f.clientID, Timezone: &tz}))
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	f.now = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	rec, err := f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", rec.DayKey())
}

func TestPunch_Principal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")
	lat, lng := office.Latitude, office.Longitude

	resp, err := f.svc.Punch(ctx, f.principal(emp), attendance.PunchRequest{
		Latitude:  &lat,
		Longitude: &lng,
		Action:    attendance.ActionIn,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Punched in successfully", resp.Message)
	require.NotNil(t, resp.Record)
	assert.Equal(t, "OFFICE", resp.Record.LocationType)

	resp, err = f.svc.Punch(ctx, f.principal(emp), attendance.PunchRequest{
		Latitude:  &lat,
		Longitude: &lng,
		Action:    attendance.ActionOut,
	})
	require.NoError(t, err)
	assert.Equal(t, "Punched out successfully", resp.Message)
	assert.NotNil(t, resp.Record.OutTime)

	t.Run("super admin cannot punch", func(t *testing.T) {
		_, err := f.svc.Punch(ctx, auth.Principal{UserID: "root", Role: user.RoleSuperAdmin}, attendance.PunchRequest{
			Latitude: &lat, Longitude: &lng, Action: attendance.ActionIn,
		})
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("admin without employee profile", func(t *testing.T) {
		admin := auth.Principal{UserID: "admin", Role: user.RoleClientAdmin, ClientID: f.clientID}
		_, err := f.svc.Punch(ctx, admin, attendance.PunchRequest{
			Latitude: &lat, Longitude: &lng, Action: attendance.ActionIn,
		})
		assert.ErrorIs(t, err, auth.ErrNoEmployeeProfile)
	})
}

func TestGetMyAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")

	for day := 0; day < 3; day++ {
		f.now = time.Date(2025, 3, 10+day, 9, 0, 0, 0, time.UTC)
		_, err := f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
		require.NoError(t, err)
		f.now = f.now.Add(8 * time.Hour)
		_, err = f.svc.PunchOut(ctx, emp.ID, at(office))
		require.NoError(t, err)
	}

	start := "2025-03-11"
	records, err := f.svc.GetMyAttendance(ctx, f.principal(emp), attendance.MyAttendanceFilter{StartDate: &start})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-03-12", records[0].Date)
	assert.Equal(t, "2025-03-11", records[1].Date)
}

func TestReport_Punctuality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		email   string
		shiftID string
		inAt    time.Time
		want    attendance.Punctuality
		lateBy  int
	}{
		{"early@acme.test", f.shift.ID, time.Date(2025, 3, 10, 8, 50, 0, 0, time.UTC), attendance.PunctualityEarly, 0},
		{"ontime@acme.test", f.shift.ID, time.Date(2025, 3, 10, 9, 10, 0, 0, time.UTC), attendance.PunctualityOnTime, 0},
		{"late@acme.test", f.shift.ID, time.Date(2025, 3, 10, 9, 20, 0, 0, time.UTC), attendance.PunctualityLate, 5},
		{"noshift@acme.test", "", time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), attendance.PunctualityUnknown, 0},
	}
	for _, c := range cases {
		emp := f.addEmployee(t, c.email, f.branch.ID, c.shiftID)
		f.now = c.inAt
		_, err := f.svc.PunchIn(ctx, emp.ID, at(office), attendance.LocationOffice)
		require.NoError(t, err)
	}

	admin := auth.Principal{UserID: "admin", Role: user.RoleClientAdmin, ClientID: f.clientID}
	items, err := f.svc.Report(ctx, admin, attendance.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, items, len(cases))

	byEmail := make(map[string]attendance.ReportItem)
	for _, item := range items {
		byEmail[item.EmployeeEmail] = item
	}
	for _, c := range cases {
		item, ok := byEmail[c.email]
		require.True(t, ok, c.email)
		assert.Equal(t, c.want, item.Punctuality, c.email)
		assert.Equal(t, c.lateBy, item.LateByMinutes, c.email)
		assert.Equal(t, c.want == attendance.PunctualityLate, item.IsLate, c.email)
	}

	late := string(attendance.PunctualityLate)
	items, err = f.svc.Report(ctx, admin, attendance.ReportFilter{Punctuality: &late})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "late@acme.test", items[0].EmployeeEmail)
	assert.Equal(t, "HQ", *items[0].BranchName)
}

func TestReport_Scope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	emp := f.addEmployee(t, "budi@acme.test", f.branch.ID, "")
	_, err := f.svc.Report(ctx, f.principal(emp), attendance.ReportFilter{})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	admin := auth.Principal{UserID: "admin", Role: user.RoleClientAdmin, ClientID: f.clientID}
	_, err = f.svc.Report(ctx, admin, attendance.ReportFilter{ClientID: "someone-else"})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	root := auth.Principal{UserID: "root", Role: user.RoleSuperAdmin}
	items, err := f.svc.Report(ctx, root, attendance.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}
