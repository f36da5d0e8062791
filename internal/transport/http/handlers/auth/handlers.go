package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/directory"
	"leavetrack/internal/transport/http/api"
	"leavetrack/internal/transport/http/middleware"
)

type Handler struct {
	Directory *directory.Service
	Secret    string
	TokenTTL  time.Duration
}

func NewHandler(dir *directory.Service, secret string, ttl time.Duration) *Handler {
	return &Handler{Directory: dir, Secret: secret, TokenTTL: ttl}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  directory.User `json:"user"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	email := strings.TrimSpace(strings.ToLower(payload.Email))
	if email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", middleware.GetRequestID(r.Context()))
		return
	}

	_, hash, err := h.Directory.Store.PasswordHashByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(hash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Directory.UserByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, RoleName: user.Role}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, loginResponse{Token: token, User: user}, middleware.GetRequestID(r.Context()))
}

// HandleMe echoes the authenticated identity, mainly for client bootstrapping.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	user, err := h.Directory.UserByID(r.Context(), userCtx.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}
