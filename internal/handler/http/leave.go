package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	// Leave types
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)

	// Leave requests
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

func (h *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.CreateLeaveTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.CreateType(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave type created successfully", created)
}

func (h *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	types, err := h.leaveService.ListTypes(r.Context(), principal, r.URL.Query().Get("client_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

func (h *leaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.leaveService.UpdateType(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type updated successfully", updated)
}

func (h *leaveHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.DeleteType(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type deleted successfully", nil)
}

func (h *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.CreateRequest(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave request created", "request_id", created.ID, "employee_id", principal.EmployeeID)
	response.Created(w, "Leave request submitted successfully", created)
}

func (h *leaveHandlerImpl) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.leaveService.ListMyRequests(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *leaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var errs validator.ValidationErrors
	filter := leave.LeaveRequestFilter{
		ClientID:   r.URL.Query().Get("client_id"),
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
		Limit:      queryInt(r, "limit", &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := h.leaveService.ListRequests(r.Context(), principal, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.leaveService.Approve, "Leave request approved")
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.leaveService.Reject, "Leave request rejected")
}

type reviewFunc func(ctx context.Context, principal auth.Principal, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error)

func (h *leaveHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn reviewFunc, message string) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.ReviewLeaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	reviewed, err := fn(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info(message, "request_id", reviewed.ID, "by", principal.UserID)
	response.SuccessWithMessage(w, message, reviewed)
}
