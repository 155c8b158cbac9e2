package response

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outside *attendance.OutsideGeofenceError
	if errors.As(err, &outside) {
		errorResponse(w, http.StatusBadRequest, "OUTSIDE_GEOFENCE", outside.Error(), map[string]float64{
			"distance_meters": math.Round(outside.DistanceMeters),
			"radius_meters":   outside.RadiusMeters,
		})
		return
	}

	switch {
	// Attendance
	case errors.Is(err, attendance.ErrMissingLocation):
		errorResponse(w, http.StatusBadRequest, "MISSING_LOCATION", err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		errorResponse(w, http.StatusConflict, "ALREADY_PUNCHED_IN", err.Error(), nil)
	case errors.Is(err, attendance.ErrNotPunchedIn):
		errorResponse(w, http.StatusConflict, "NOT_PUNCHED_IN", err.Error(), nil)
	case errors.Is(err, attendance.ErrEmployeeOrBranchNotFound),
		errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrPersistence):
		slog.Error("attendance store failure", "error", err)
		InternalServerError(w, "Failed to save attendance")

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, employee.ErrCannotDeleteYourself),
		errors.Is(err, leave.ErrCannotReviewOwnRequest),
		errors.Is(err, auth.ErrNoEmployeeProfile):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrClientIDRequired):
		BadRequest(w, err.Error(), nil)

	// Clients
	case errors.Is(err, client.ErrClientNotFound):
		NotFound(w, "Client not found")
	case errors.Is(err, client.ErrClientNameExists),
		errors.Is(err, client.ErrClientInUse):
		Conflict(w, err.Error())

	// Master data
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, branch.ErrUnauthorizedAccess):
		Forbidden(w, err.Error())
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, branch.ErrBranchNameExists),
		errors.Is(err, branch.ErrBranchInUse),
		errors.Is(err, shift.ErrShiftNameExists),
		errors.Is(err, shift.ErrShiftInUse):
		Conflict(w, err.Error())

	// Employees
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrProfileExists):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrBranchNotInClient),
		errors.Is(err, employee.ErrShiftNotInClient):
		BadRequest(w, err.Error(), nil)

	// Leave
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNameExists),
		errors.Is(err, leave.ErrLeaveTypeInUse),
		errors.Is(err, leave.ErrLeaveRequestOverlap),
		errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrExceedsAllowedDays):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
