package corehandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfeval/internal/domain/auth"
	"perfeval/internal/domain/core"
	"perfeval/internal/transport/http/api"
	"perfeval/internal/transport/http/middleware"
	"perfeval/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Perms   middleware.PermissionStore
	Audit   shared.AuditRecorder
}

func NewHandler(service *core.Service, perms middleware.PermissionStore, recorder shared.AuditRecorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPeopleRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPeopleWrite, h.Perms)
	admin := middleware.RequirePermission(auth.PermUsersAdmin, h.Perms)

	r.Route("/empleados", func(r chi.Router) {
		r.With(read).Get("/", h.handleListEmployees)
		r.With(write).Post("/", h.handleCreateEmployee)
		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetEmployee)
			r.With(write).Put("/", h.handleUpdateEmployee)
			r.With(write).Patch("/estado", h.handleToggleEmployee)
		})
	})
	r.Route("/encargados", func(r chi.Router) {
		r.With(read).Get("/", h.handleListSupervisors)
		r.With(write).Post("/", h.handleCreateSupervisor)
		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGetSupervisor)
			r.With(write).Put("/", h.handleUpdateSupervisor)
			r.With(write).Patch("/estado", h.handleToggleSupervisor)
			r.With(read).Get("/empleados", h.handleSupervisorEmployees)
			r.With(admin).Put("/evaluadores", h.handleSetEvaluators)
		})
	})
	r.Route("/usuarios", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetUser)
			r.Put("/", h.handleUpdateUser)
			r.Patch("/estado", h.handleToggleUser)
		})
	})
}

type toggleResponse struct {
	ID     int64 `json:"id"`
	Active bool  `json:"active"`
}

// decode reads and validates a payload, writing the failure response itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	requestID := middleware.GetRequestID(r.Context())
	if err := shared.DecodeJSON(r, dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return false
	}
	v := shared.NewValidator()
	v.Struct(dst)
	return !v.Reject(w, requestID)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := shared.URLParamID(r, "id")
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "id", Reason: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func actor(r *http.Request) int64 {
	user, _ := middleware.GetUser(r.Context())
	return user.UserID
}

func fail(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, core.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, core.ErrDuplicate):
		api.Fail(w, http.StatusConflict, "duplicate", "a record with the same unique value already exists", requestID)
	case errors.Is(err, core.ErrUnknownReference):
		api.Fail(w, http.StatusBadRequest, "unknown_reference", "a referenced record does not exist", requestID)
	default:
		slog.Error("people directory request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}
