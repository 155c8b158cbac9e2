package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/master/shift"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	// Branch handlers
	CreateBranch(w http.ResponseWriter, r *http.Request)
	ListBranches(w http.ResponseWriter, r *http.Request)
	GetBranch(w http.ResponseWriter, r *http.Request)
	UpdateBranch(w http.ResponseWriter, r *http.Request)
	DeleteBranch(w http.ResponseWriter, r *http.Request)

	// Shift handlers
	CreateShift(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
	GetShift(w http.ResponseWriter, r *http.Request)
	UpdateShift(w http.ResponseWriter, r *http.Request)
	DeleteShift(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{masterService: masterService}
}

// ========================================
// BRANCH HANDLERS
// ========================================

func (h *masterHandlerImpl) CreateBranch(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req branch.CreateBranchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.masterService.CreateBranch(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Branch created successfully", created)
}

func (h *masterHandlerImpl) ListBranches(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	branches, err := h.masterService.ListBranches(r.Context(), principal, r.URL.Query().Get("client_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, branches)
}

func (h *masterHandlerImpl) GetBranch(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	b, err := h.masterService.GetBranch(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, b)
}

func (h *masterHandlerImpl) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req branch.UpdateBranchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.masterService.UpdateBranch(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Branch updated successfully", updated)
}

func (h *masterHandlerImpl) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.masterService.DeleteBranch(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Branch deleted successfully", nil)
}

// ========================================
// SHIFT HANDLERS
// ========================================

func (h *masterHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.CreateShiftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.masterService.CreateShift(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created successfully", created)
}

func (h *masterHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	shifts, err := h.masterService.ListShifts(r.Context(), principal, r.URL.Query().Get("client_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shifts)
}

func (h *masterHandlerImpl) GetShift(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	s, err := h.masterService.GetShift(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, s)
}

func (h *masterHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req shift.UpdateShiftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.masterService.UpdateShift(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift updated successfully", updated)
}

func (h *masterHandlerImpl) DeleteShift(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.masterService.DeleteShift(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}
