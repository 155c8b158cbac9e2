package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/client"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ClientHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type clientHandlerImpl struct {
	clientService client.ClientService
}

func NewClientHandler(clientService client.ClientService) ClientHandler {
	return &clientHandlerImpl{clientService: clientService}
}

// Create implements ClientHandler.
func (h *clientHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req client.CreateClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.clientService.Create(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Client created", "client_id", created.ID, "by", principal.UserID)
	response.Created(w, "Client created successfully", created)
}

// List implements ClientHandler.
func (h *clientHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	clients, err := h.clientService.List(r.Context(), principal)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, clients)
}

// Get implements ClientHandler.
func (h *clientHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	c, err := h.clientService.Get(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, c)
}

// Update implements ClientHandler.
func (h *clientHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req client.UpdateClientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.clientService.Update(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Client updated successfully", updated)
}

// Delete implements ClientHandler.
func (h *clientHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.Principal(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.clientService.Delete(r.Context(), principal, id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Client deleted", "client_id", id, "by", principal.UserID)
	response.SuccessWithMessage(w, "Client deleted successfully", nil)
}
