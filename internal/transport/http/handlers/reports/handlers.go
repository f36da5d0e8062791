package reportshandler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/directory"
	"leavetrack/internal/domain/reports"
	"leavetrack/internal/transport/http/api"
	"leavetrack/internal/transport/http/middleware"
)

type Handler struct {
	Store     *reports.Store
	Directory *directory.Service
}

func NewHandler(store *reports.Store, dir *directory.Service) *Handler {
	return &Handler{Store: store, Directory: dir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/on-leave-today", h.handleOnLeaveToday)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/team-calendar", h.handleTeamCalendar)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/balance-summary", h.handleBalanceSummary)
	})
}

func (h *Handler) handleOnLeaveToday(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.OnLeaveToday(r.Context(), time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build on-leave report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	now := time.Now()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())
	if month < 1 || month > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be between 1 and 12", middleware.GetRequestID(r.Context()))
		return
	}

	var memberIDs []string
	if user.RoleName != auth.RoleAdmin {
		ids, err := h.teamMemberIDs(r, user.UserID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to resolve team members", middleware.GetRequestID(r.Context()))
			return
		}
		memberIDs = ids
	}

	rows, err := h.Store.TeamLeave(r.Context(), memberIDs, month, year, user.RoleName)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build team calendar", middleware.GetRequestID(r.Context()))
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=team-leave-%d-%02d.csv", year, month))
		if err := reports.WriteTeamLeaveCSV(w, rows); err != nil {
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render csv", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

// teamMemberIDs returns the caller plus their direct reports.
func (h *Handler) teamMemberIDs(r *http.Request, userID string) ([]string, error) {
	users, err := h.Directory.ListActive(r.Context())
	if err != nil {
		return nil, err
	}
	ids := []string{userID}
	for _, u := range users {
		if u.ManagerID == userID {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (h *Handler) handleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", time.Now().Year())
	rows, err := h.Store.BalanceSummary(r.Context(), year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build balance summary", middleware.GetRequestID(r.Context()))
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=balance-summary-%d.pdf", year))
		if err := reports.WriteBalanceSummaryPDF(w, year, rows); err != nil {
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render pdf", middleware.GetRequestID(r.Context()))
		}
		return
	}
	api.Success(w, rows, middleware.GetRequestID(r.Context()))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
