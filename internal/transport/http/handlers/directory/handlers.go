package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/directory"
	"leavetrack/internal/transport/http/api"
	"leavetrack/internal/transport/http/middleware"
	"leavetrack/internal/transport/http/shared"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/{userID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/{userID}/chain", h.handleChain)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Put("/{userID}/manager", h.handleSetManager)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Delete("/{userID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListActive(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

type createUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Enum("role", payload.Role, []string{auth.RoleEmployee, auth.RoleManager, auth.RoleHR, auth.RoleAdmin}, "unknown role")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password, payload.Role, payload.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", middleware.GetRequestID(r.Context()))
		case errors.Is(err, directory.ErrNotFound):
			api.Fail(w, http.StatusBadRequest, "manager_not_found", "manager does not exist", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.UserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleChain(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if _, err := h.Service.UserByID(r.Context(), userID); err != nil {
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	chain, err := h.Service.ResolveChain(r.Context(), userID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "chain_failed", "failed to resolve approval chain", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, chain, middleware.GetRequestID(r.Context()))
}

type setManagerRequest struct {
	ManagerID string `json:"managerId"`
}

func (h *Handler) handleSetManager(w http.ResponseWriter, r *http.Request) {
	var payload setManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Service.UpdateManager(r.Context(), chi.URLParam(r, "userID"), payload.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrManagerCycle):
			api.Fail(w, http.StatusConflict, "manager_cycle", "assignment would create a reporting cycle", middleware.GetRequestID(r.Context()))
		case errors.Is(err, directory.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "manager_update_failed", "failed to update manager", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.SoftDelete(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "user_delete_failed", "failed to delete user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
