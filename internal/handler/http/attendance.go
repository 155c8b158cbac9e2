package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.PunchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Punch(r.Context(), principal, req)
	if err != nil {
		var outside *attendance.OutsideGeofenceError
		if errors.As(err, &outside) {
			slog.Info("Punch outside geofence",
				"employee_id", principal.EmployeeID,
				"distance_meters", outside.DistanceMeters,
				"radius_meters", outside.RadiusMeters,
			)
		}
		response.HandleError(w, err)
		return
	}

	slog.Info("Punch recorded", "employee_id", principal.EmployeeID, "action", req.Action)
	if req.Action == attendance.ActionIn {
		response.Created(w, result.Message, result.Record)
		return
	}
	response.SuccessWithMessage(w, result.Message, result.Record)
}

// GetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.GetMyStatus(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var errs validator.ValidationErrors
	filter := attendance.MyAttendanceFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Limit:     queryInt(r, "limit", &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.GetMyAttendance(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Report implements AttendanceHandler.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var errs validator.ValidationErrors
	filter := attendance.ReportFilter{
		ClientID:    r.URL.Query().Get("client_id"),
		Date:        queryString(r, "date"),
		StartDate:   queryString(r, "start_date"),
		EndDate:     queryString(r, "end_date"),
		BranchID:    queryString(r, "branch_id"),
		EmployeeID:  queryString(r, "employee_id"),
		Punctuality: queryString(r, "punctuality"),
		Limit:       queryInt(r, "limit", &errs),
		Offset:      queryInt(r, "offset", &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	items, err := h.attendanceService.Report(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, items, &response.Meta{Limit: filter.PageLimit(), TotalItems: int64(len(items))})
}
