package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
)

type AttendanceService interface {
	// Punch dispatches an IN or OUT for the caller's own employee profile.
	Punch(ctx context.Context, principal auth.Principal, req PunchRequest) (PunchResponse, error)
	PunchIn(ctx context.Context, employeeID string, point *geofence.Point, locationType LocationType) (Record, error)
	PunchOut(ctx context.Context, employeeID string, point *geofence.Point) (Record, error)

	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)
	GetMyStatus(ctx context.Context, principal auth.Principal) (StatusResponse, error)
	GetMyAttendance(ctx context.Context, principal auth.Principal, filter MyAttendanceFilter) ([]RecordResponse, error)

	// Report lists records for admins, each classified for punctuality.
	Report(ctx context.Context, principal auth.Principal, filter ReportFilter) ([]ReportItem, error)
}
