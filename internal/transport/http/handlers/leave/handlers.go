package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"leavetrack/internal/domain/auth"
	"leavetrack/internal/domain/leave"
	"leavetrack/internal/platform/jobs"
	"leavetrack/internal/platform/metrics"
	"leavetrack/internal/transport/http/api"
	"leavetrack/internal/transport/http/middleware"
	"leavetrack/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

func NewHandler(service *leave.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Put("/types/{typeID}", h.handleUpdateType)
		r.With(middleware.RequirePermission(auth.PermLeaveAdmin)).Delete("/types/{typeID}", h.handleDeleteType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balances", h.handleBalances)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Get("/requests/incoming", h.handleIncoming)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests/{requestID}/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermJobsRun)).Post("/carry-forward/run", h.handleRunCarryForward)
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListTypes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_types_failed", "failed to list leave types", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, types, middleware.GetRequestID(r.Context()))
}

type leaveTypeRequest struct {
	Name          string  `json:"name"`
	MaxPerYear    float64 `json:"maxPerYear"`
	MultiApprover int     `json:"multiApprover"`
	AutoApprove   bool    `json:"autoApprove"`
	Exempt        bool    `json:"exempt"`
	CarryForward  bool    `json:"carryForward"`
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var payload leaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if payload.MaxPerYear <= 0 {
		v.Add("maxPerYear", "must be positive")
	}
	if payload.MultiApprover < 0 || payload.MultiApprover > 3 {
		v.Add("multiApprover", "must be between 0 and 3")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.CreateType(r.Context(), leave.LeaveType{
		Name:          strings.TrimSpace(payload.Name),
		MaxPerYear:    payload.MaxPerYear,
		MultiApprover: payload.MultiApprover,
		AutoApprove:   payload.AutoApprove,
		Exempt:        payload.Exempt,
		CarryForward:  payload.CarryForward,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	var payload leaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	err := h.Service.UpdateType(r.Context(), leave.LeaveType{
		ID:            chi.URLParam(r, "typeID"),
		Name:          strings.TrimSpace(payload.Name),
		MaxPerYear:    payload.MaxPerYear,
		MultiApprover: payload.MultiApprover,
		AutoApprove:   payload.AutoApprove,
		Exempt:        payload.Exempt,
		CarryForward:  payload.CarryForward,
	})
	if err != nil {
		if errors.Is(err, leave.ErrTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "leave_type_not_found", "leave type not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_type_update_failed", "failed to update leave type", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteType(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		if errors.Is(err, leave.ErrTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "leave_type_not_found", "leave type not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave_type_delete_failed", "failed to delete leave type", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := user.UserID
	if requested := r.URL.Query().Get("userId"); requested != "" && requested != user.UserID {
		if !auth.HasPermission(user.RoleName, auth.PermLeaveApprove) {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot view another user's balances", middleware.GetRequestID(r.Context()))
			return
		}
		targetID = requested
	}

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			year = parsed
		}
	}

	balances, err := h.Service.Balances(r.Context(), targetID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balances_failed", "failed to list balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

type submitRequest struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsHalfDay   bool   `json:"isHalfDay"`
	HalfDayType string `json:"halfDayType"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID, "leaveTypeId is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if payload.IsHalfDay {
		v.Enum("halfDayType", payload.HalfDayType, []string{string(leave.HalfDayAM), string(leave.HalfDayPM)}, "must be AM or PM")
		v.Required("halfDayType", payload.HalfDayType, "halfDayType is required for half-day requests")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	totalDays, err := leave.CalculateRequestDays(start, end, payload.IsHalfDay)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "half-day requests must cover a single day", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.Submit(r.Context(), leave.SubmitInput{
		UserID:      user.UserID,
		LeaveTypeID: payload.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		IsHalfDay:   payload.IsHalfDay,
		HalfDayType: leave.HalfDayType(strings.ToUpper(payload.HalfDayType)),
		Reason:      payload.Reason,
		TotalDays:   totalDays,
	})
	if err != nil {
		h.failSubmit(w, r, err)
		return
	}
	h.Metrics.RecordSubmission()
	api.Created(w, map[string]any{"id": id, "totalDays": totalDays}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failSubmit(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrTypeNotFound):
		api.Fail(w, http.StatusNotFound, "leave_type_not_found", "leave type not found", requestID)
	case errors.Is(err, leave.ErrBalanceNotFound):
		api.Fail(w, http.StatusConflict, "balance_missing", "no balance row for this leave type and year", requestID)
	case errors.Is(err, leave.ErrLimitExceeded):
		api.Fail(w, http.StatusConflict, "limit_exceeded", "requested days exceed the remaining balance", requestID)
	case errors.Is(err, leave.ErrOverlapConflict):
		api.Fail(w, http.StatusConflict, "overlap_conflict", "dates overlap an existing request", requestID)
	case errors.Is(err, leave.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "invalid date range", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "leave_submit_failed", "failed to submit leave request", requestID)
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	history, err := h.Service.History(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "history_failed", "failed to list leave history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleIncoming(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	incoming, err := h.Service.Incoming(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "incoming_failed", "failed to list incoming requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, incoming, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve, h.Metrics.RecordApproval)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject, h.Metrics.RecordRejection)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (leave.Outcome, error), record func()) {
	out, err := fn(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "decision_failed", "failed to process decision", middleware.GetRequestID(r.Context()))
		return
	}
	if !out.AlreadyProcessed {
		record()
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	req, err := h.Service.Store.RequestByID(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "request_not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel leave request", middleware.GetRequestID(r.Context()))
		return
	}
	if req.UserID != user.UserID && !auth.HasPermission(user.RoleName, auth.PermLeaveAdmin) {
		api.Fail(w, http.StatusForbidden, "forbidden", "cannot cancel another user's request", middleware.GetRequestID(r.Context()))
		return
	}

	out, err := h.Service.Cancel(r.Context(), requestID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cancel_failed", "failed to cancel leave request", middleware.GetRequestID(r.Context()))
		return
	}
	if !out.AlreadyProcessed {
		h.Metrics.RecordCancellation()
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRunCarryForward(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Jobs.RunNow(r.Context(), jobs.JobCarryForward, func(ctx context.Context) (any, error) {
		return h.Service.RunCarryForward(ctx, time.Now())
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "carry_forward_failed", "carry-forward run failed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
