package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geofence"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchAction string

const (
	ActionIn  PunchAction = "IN"
	ActionOut PunchAction = "OUT"
)

type PunchRequest struct {
	Latitude     *float64     `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64     `json:"longitude" validate:"omitempty,longitude"`
	LocationType LocationType `json:"location_type" validate:"omitempty,oneof=OFFICE REMOTE"`
	Action       PunchAction  `json:"action" validate:"required,oneof=IN OUT"`
}

// Validate checks the shape of the request. Absent coordinates are left to
// the service, which reports them as ErrMissingLocation.
func (r *PunchRequest) Validate() error {
	if r.LocationType == "" {
		r.LocationType = LocationOffice
	}
	return validator.Struct(r)
}

// Point returns the submitted coordinate, or nil when either half is absent.
func (r *PunchRequest) Point() *geofence.Point {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geofence.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type PunchResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Record  *RecordResponse `json:"record,omitempty"`
}

type StatusResponse struct {
	PunchedIn  bool            `json:"punched_in"`
	Date       string          `json:"date"`
	LastRecord *RecordResponse `json:"last_record"`
}

type RecordResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	ClientID     string   `json:"client_id"`
	Date         string   `json:"date"`
	InTime       *string  `json:"in_time"`
	OutTime      *string  `json:"out_time"`
	LocationType string   `json:"location_type"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	OutLatitude  *float64 `json:"out_latitude,omitempty"`
	OutLongitude *float64 `json:"out_longitude,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at"`
}

// NewRecordResponse renders r with timestamps in loc.
func NewRecordResponse(r Record, loc *time.Location) RecordResponse {
	return RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		ClientID:     r.ClientID,
		Date:         r.DayKey(),
		InTime:       timePtrToString(r.InTime, loc),
		OutTime:      timePtrToString(r.OutTime, loc),
		LocationType: string(r.LocationType),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		OutLatitude:  r.OutLatitude,
		OutLongitude: r.OutLongitude,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.In(loc).Format(time.RFC3339),
	}
}

func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

// ========================================
// REPORT DTOs
// ========================================

// ReportFilter selects records for the admin attendance report.
// DefaultReportLimit applies when a report request sets no limit.
const DefaultReportLimit = 100

type ReportFilter struct {
	ClientID    string
	Date        *string
	StartDate   *string
	EndDate     *string
	BranchID    *string
	EmployeeID  *string
	Punctuality *string
	Limit       int
	Offset      int
}

// PageLimit is the page size the report is served with.
func (f ReportFilter) PageLimit() int {
	if f.Limit == 0 {
		return DefaultReportLimit
	}
	return f.Limit
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = DefaultReportLimit
	}
	if f.Limit > 500 {
		errs.Add("limit", "limit must not exceed 500")
	}
	if f.Offset < 0 {
		errs.Add("offset", "offset must not be negative")
	}

	validateDate(&errs, "date", f.Date)
	validateDate(&errs, "start_date", f.StartDate)
	validateDate(&errs, "end_date", f.EndDate)
	validateRange(&errs, f.StartDate, f.EndDate)

	if f.Punctuality != nil {
		valid := []string{string(PunctualityEarly), string(PunctualityOnTime), string(PunctualityLate), string(PunctualityUnknown)}
		if !validator.IsInSlice(*f.Punctuality, valid) {
			errs.Add("punctuality", "punctuality must be one of: EARLY, ON_TIME, LATE, UNKNOWN")
		}
	}

	return errs.Err()
}

// ReportRow is a record joined with the employee, branch and shift it
// belongs to.
type ReportRow struct {
	Record
	EmployeeName            string
	EmployeeEmail           string
	BranchID                *string
	BranchName              *string
	BranchTimezone          *string
	ClientTimezone          *string
	ShiftID                 *string
	ShiftName               *string
	ShiftStartTime          *string
	ShiftGracePeriodMinutes *int
}

// ShiftWindow returns the row's shift, or nil when the employee has none.
func (r *ReportRow) ShiftWindow() *ShiftWindow {
	if r.ShiftStartTime == nil {
		return nil
	}
	return &ShiftWindow{StartTime: *r.ShiftStartTime, GracePeriodMinutes: r.ShiftGracePeriodMinutes}
}

type ReportItem struct {
	RecordResponse
	PunctualityResult
	EmployeeName  string  `json:"employee_name"`
	EmployeeEmail string  `json:"employee_email"`
	BranchName    *string `json:"branch_name,omitempty"`
	ShiftName     *string `json:"shift_name,omitempty"`
	ShiftStart    *string `json:"shift_start_time,omitempty"`
}

// ========================================
// HISTORY DTOs
// ========================================

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Limit     int
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 31
	}
	if f.Limit > 366 {
		errs.Add("limit", "limit must not exceed 366")
	}

	validateDate(&errs, "start_date", f.StartDate)
	validateDate(&errs, "end_date", f.EndDate)
	validateRange(&errs, f.StartDate, f.EndDate)

	return errs.Err()
}

func validateDate(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if _, valid := validator.IsValidDate(*value); !valid {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

func validateRange(errs *validator.ValidationErrors, start, end *string) {
	if start == nil || end == nil {
		return
	}
	s, okStart := validator.IsValidDate(*start)
	e, okEnd := validator.IsValidDate(*end)
	if okStart && okEnd && e.Before(s) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
}
