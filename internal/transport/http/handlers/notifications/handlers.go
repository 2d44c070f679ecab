package notificationshandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"perfeval/internal/domain/audit"
	"perfeval/internal/domain/auth"
	"perfeval/internal/domain/notifications"
	"perfeval/internal/transport/http/api"
	"perfeval/internal/transport/http/middleware"
	"perfeval/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *notifications.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequirePermission(auth.PermNotificationsWrite, h.Perms)
	r.Route("/notificaciones", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermNotificationsRead, h.Perms)).Get("/", h.handleList)
		r.With(write).Post("/desactivar", h.handleDeactivateMany)
		r.With(write).Post("/{id}/desactivar", h.handleDeactivate)
	})
}

type deactivateManyRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	supervisorID, err := shared.QueryID(r, "encargado_id")
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "encargado_id", Reason: "must be a positive integer"}})
		return
	}

	items, err := h.Service.ListRecent(r.Context(), supervisorID)
	if err != nil {
		slog.Error("notification list failed", "supervisorId", supervisorID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", requestID)
		return
	}
	if items == nil {
		items = []notifications.Notification{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	api.Success(w, items, requestID)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.URLParamID(r, "id")
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "id", Reason: "must be a positive integer"}})
		return
	}

	changed, err := h.Service.Deactivate(r.Context(), id)
	if errors.Is(err, notifications.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "notification_not_found", "notification not found", requestID)
		return
	}
	if err != nil {
		slog.Error("notification deactivate failed", "notificationId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to update notification", requestID)
		return
	}

	if changed {
		user, _ := middleware.GetUser(r.Context())
		shared.Audit(r, h.Audit, user.UserID, audit.ActionNotificationsDisabled, "notification", strconv.FormatInt(id, 10), nil, map[string]any{"ids": []int64{id}})
	}
	api.Success(w, map[string]any{"id": id, "changed": changed}, requestID)
}

func (h *Handler) handleDeactivateMany(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload deactivateManyRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	count, err := h.Service.DeactivateMany(r.Context(), payload.IDs)
	if errors.Is(err, notifications.ErrNoIDs) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "ids", Reason: "must contain at least one positive id"}})
		return
	}
	if err != nil {
		slog.Error("notification bulk deactivate failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to update notifications", requestID)
		return
	}

	if count > 0 {
		user, _ := middleware.GetUser(r.Context())
		shared.Audit(r, h.Audit, user.UserID, audit.ActionNotificationsDisabled, "notification", "bulk", nil, map[string]any{"ids": payload.IDs, "changed": count})
	}
	api.Success(w, map[string]any{"changed": count}, requestID)
}
