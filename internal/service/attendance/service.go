package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employeeRepo employee.EmployeeRepository
	branchRepo   branch.BranchRepository
	clientRepo   client.ClientRepository

	// defaultLocation decides the work day when neither the branch nor the
	// client names a timezone.
	defaultLocation *time.Location
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	clientRepo client.ClientRepository,
	defaultLocation *time.Location,
) attendance.AttendanceService {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		branchRepo:           branchRepo,
		clientRepo:           clientRepo,
		defaultLocation:      defaultLocation,
		now:                  time.Now,
	}
}

// punchContext is what a punch needs to know about the employee. It is
// read once per request.
type punchContext struct {
	employee employee.Employee
	branch   *branch.Branch // nil when the employee has no branch
	location *time.Location
}

func (p punchContext) day(now time.Time) time.Time {
	return attendance.WorkDay(now, p.location)
}

// loadLocation resolves the first valid zone name, falling back to def.
func loadLocation(def *time.Location, names ...*string) *time.Location {
	for _, name := range names {
		if loc, ok := zone(name); ok {
			return loc
		}
	}
	return def
}

// zone loads name, reporting false when it is unset or unknown.
func zone(name *string) (*time.Location, bool) {
	if name == nil || *name == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(*name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

func (a *AttendanceServiceImpl) loadPunchContext(ctx context.Context, employeeID string) (punchContext, error) {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return punchContext{}, attendance.ErrEmployeeOrBranchNotFound
		}
		return punchContext{}, attendance.WrapPersistence("load employee", err)
	}

	pc := punchContext{employee: emp}
	var branchTZ *string
	if emp.BranchID != nil {
		b, err := a.branchRepo.GetByID(ctx, *emp.BranchID)
		if err != nil {
			if errors.Is(err, branch.ErrBranchNotFound) {
				return punchContext{}, attendance.ErrEmployeeOrBranchNotFound
			}
			return punchContext{}, attendance.WrapPersistence("load branch", err)
		}
		pc.branch = &b
		branchTZ = b.Timezone
	}

	if loc, ok := zone(branchTZ); ok {
		pc.location = loc
		return pc, nil
	}

	c, err := a.clientRepo.GetByID(ctx, emp.ClientID)
	if err != nil && !errors.Is(err, client.ErrClientNotFound) {
		return punchContext{}, attendance.WrapPersistence("load client", err)
	}
	pc.location = loadLocation(a.defaultLocation, c.Timezone)
	return pc, nil
}

// punchResult maps a punch error to its metrics label.
func punchResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, attendance.ErrMissingLocation):
		return metrics.ResultMissingLocation
	case errors.Is(err, attendance.ErrOutsideGeofence):
		return metrics.ResultOutsideGeofence
	case errors.Is(err, attendance.ErrAlreadyPunchedIn), errors.Is(err, attendance.ErrNotPunchedIn):
		return metrics.ResultInvalidState
	case errors.Is(err, attendance.ErrEmployeeOrBranchNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

// PunchIn implements attendance.AttendanceService. An OFFICE punch is
// checked against the branch geofence when the branch has a location.
// Branches without a location accept any coordinate.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, employeeID string, point *geofence.Point, locationType attendance.LocationType) (attendance.Record, error) {
	rec, _, err := a.punchIn(ctx, employeeID, point, locationType)
	return rec, err
}

func (a *AttendanceServiceImpl) punchIn(ctx context.Context, employeeID string, point *geofence.Point, locationType attendance.LocationType) (rec attendance.Record, loc *time.Location, err error) {
	defer func() { metrics.RecordPunch(string(attendance.ActionIn), punchResult(err)) }()

	if point == nil || !point.Valid() {
		return attendance.Record{}, nil, attendance.ErrMissingLocation
	}
	if locationType == "" {
		locationType = attendance.LocationOffice
	}

	pc, err := a.loadPunchContext(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, nil, err
	}

	now := a.now()
	day := pc.day(now)

	// Fast path for a clear error. CreateOpen is what enforces it.
	latest, err := a.AttendanceRepository.GetLatestForDay(ctx, employeeID, day.Format(attendance.DateLayout))
	if err != nil {
		return attendance.Record{}, nil, attendance.WrapPersistence("load latest record", err)
	}
	if latest != nil && latest.IsOpen() {
		return attendance.Record{}, nil, attendance.ErrAlreadyPunchedIn
	}

	if locationType == attendance.LocationOffice && pc.branch != nil {
		if center := pc.branch.Location(); center != nil {
			radius := float64(pc.branch.RadiusMeters)
			distance, inside := geofence.Check(*point, *center, radius)
			metrics.ObserveGeofenceDistance(distance)
			if !inside {
				return attendance.Record{}, nil, &attendance.OutsideGeofenceError{
					DistanceMeters: distance,
					RadiusMeters:   radius,
				}
			}
		}
	}

	rec, err = a.AttendanceRepository.CreateOpen(ctx, attendance.Record{
		EmployeeID:   employeeID,
		ClientID:     pc.employee.ClientID,
		Date:         day,
		InTime:       &now,
		LocationType: locationType,
		Latitude:     point.Latitude,
		Longitude:    point.Longitude,
		Status:       attendance.StatusPresent,
	})
	if err != nil {
		return attendance.Record{}, nil, attendance.WrapPersistence("create record", err)
	}
	return rec, pc.location, nil
}

// PunchOut implements attendance.AttendanceService. The coordinate is kept
// for audit and is not checked against the geofence.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, employeeID string, point *geofence.Point) (attendance.Record, error) {
	rec, _, err := a.punchOut(ctx, employeeID, point)
	return rec, err
}

func (a *AttendanceServiceImpl) punchOut(ctx context.Context, employeeID string, point *geofence.Point) (rec attendance.Record, loc *time.Location, err error) {
	defer func() { metrics.RecordPunch(string(attendance.ActionOut), punchResult(err)) }()

	if point == nil || !point.Valid() {
		return attendance.Record{}, nil, attendance.ErrMissingLocation
	}

	pc, err := a.loadPunchContext(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, nil, err
	}

	now := a.now()
	rec, err = a.AttendanceRepository.CloseLatest(ctx, employeeID, pc.day(now).Format(attendance.DateLayout), now, point)
	if err != nil {
		return attendance.Record{}, nil, attendance.WrapPersistence("close record", err)
	}
	return rec, pc.location, nil
}

// Punch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Punch(ctx context.Context, principal auth.Principal, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := principal.Require(user.PermissionAttendancePunch); err != nil {
		return attendance.PunchResponse{}, err
	}
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	var (
		rec     attendance.Record
		loc     *time.Location
		message string
	)
	switch req.Action {
	case attendance.ActionIn:
		rec, loc, err = a.punchIn(ctx, employeeID, req.Point(), req.LocationType)
		message = "Punched in successfully"
	case attendance.ActionOut:
		rec, loc, err = a.punchOut(ctx, employeeID, req.Point())
		message = "Punched out successfully"
	default:
		return attendance.PunchResponse{}, fmt.Errorf("unknown punch action %q", req.Action)
	}
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	resp := attendance.NewRecordResponse(rec, loc)
	return attendance.PunchResponse{
		Success: true,
		Message: message,
		Record:  &resp,
	}, nil
}

// GetStatus implements attendance.AttendanceService. It never writes.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	pc, err := a.loadPunchContext(ctx, employeeID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	day := pc.day(a.now()).Format(attendance.DateLayout)
	latest, err := a.AttendanceRepository.GetLatestForDay(ctx, employeeID, day)
	if err != nil {
		return attendance.StatusResponse{}, attendance.WrapPersistence("load latest record", err)
	}

	status := attendance.StatusResponse{Date: day}
	if latest != nil {
		resp := attendance.NewRecordResponse(*latest, pc.location)
		status.PunchedIn = latest.IsOpen()
		status.LastRecord = &resp
	}
	return status, nil
}

// GetMyStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyStatus(ctx context.Context, principal auth.Principal) (attendance.StatusResponse, error) {
	if err := principal.Require(user.PermissionAttendanceViewOwn); err != nil {
		return attendance.StatusResponse{}, err
	}
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	return a.GetStatus(ctx, employeeID)
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, principal auth.Principal, filter attendance.MyAttendanceFilter) ([]attendance.RecordResponse, error) {
	if err := principal.Require(user.PermissionAttendanceViewOwn); err != nil {
		return nil, err
	}
	employeeID, err := principal.RequireEmployee()
	if err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	pc, err := a.loadPunchContext(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return nil, attendance.WrapPersistence("list records", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec, pc.location))
	}
	return responses, nil
}

// Report implements attendance.AttendanceService. Each punch-in is
// classified in the timezone that decided its work day.
func (a *AttendanceServiceImpl) Report(ctx context.Context, principal auth.Principal, filter attendance.ReportFilter) ([]attendance.ReportItem, error) {
	if err := principal.Require(user.PermissionAttendanceViewAll); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	clientID, err := principal.ScopeClient(filter.ClientID)
	if err != nil {
		return nil, err
	}
	filter.ClientID = clientID

	rows, err := a.AttendanceRepository.Report(ctx, filter)
	if err != nil {
		return nil, attendance.WrapPersistence("attendance report", err)
	}

	items := make([]attendance.ReportItem, 0, len(rows))
	for _, row := range rows {
		loc := loadLocation(a.defaultLocation, row.BranchTimezone, row.ClientTimezone)

		var inTime *time.Time
		if row.InTime != nil {
			local := row.InTime.In(loc)
			inTime = &local
		}
		result := attendance.Classify(inTime, row.ShiftWindow())
		if filter.Punctuality != nil && string(result.Punctuality) != *filter.Punctuality {
			continue
		}

		items = append(items, attendance.ReportItem{
			RecordResponse:    attendance.NewRecordResponse(row.Record, loc),
			PunctualityResult: result,
			EmployeeName:      row.EmployeeName,
			EmployeeEmail:     row.EmployeeEmail,
			BranchName:        row.BranchName,
			ShiftName:         row.ShiftName,
			ShiftStart:        row.ShiftStartTime,
		})
	}
	return items, nil
}
