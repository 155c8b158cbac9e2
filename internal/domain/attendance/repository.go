package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
)

// AttendanceRepository persists attendance records. Day arguments are
// YYYY-MM-DD work dates.
type AttendanceRepository interface {
	// CreateOpen inserts rec as an open record. It returns ErrAlreadyPunchedIn
	// when the employee already has an open record for rec's day. The check and
	// the insert are a single atomic write.
	CreateOpen(ctx context.Context, rec Record) (Record, error)

	// CloseLatest sets the out time on the employee's most recent record of day
	// if that record is still open, else it returns ErrNotPunchedIn.
	CloseLatest(ctx context.Context, employeeID string, day string, outTime time.Time, out *geofence.Point) (Record, error)

	// GetLatestForDay returns the most recently created record of day, or nil.
	GetLatestForDay(ctx context.Context, employeeID string, day string) (*Record, error)

	GetByID(ctx context.Context, id string) (Record, error)
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Record, error)
	Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error)

	// CountOpen counts open records. Empty clientID or day means any.
	CountOpen(ctx context.Context, clientID string, day string) (int64, error)
	// CountPresentEmployees counts distinct employees with a record on day.
	CountPresentEmployees(ctx context.Context, clientID string, day string) (int64, error)
}
