package corehandler

import (
	"net/http"
	"strconv"

	"perfeval/internal/domain/audit"
	"perfeval/internal/domain/core"
	"perfeval/internal/transport/http/api"
	"perfeval/internal/transport/http/middleware"
	"perfeval/internal/transport/http/shared"
)

type supervisorRequest struct {
	Name           string  `json:"nombre" validate:"required,max=120"`
	Position       string  `json:"puesto" validate:"max=120"`
	EmployeeNumber string  `json:"numero_empleado" validate:"max=40"`
	EvaluatorIDs   []int64 `json:"evaluadores"`
}

type evaluatorsRequest struct {
	UserIDs []int64 `json:"usuarios"`
}

func (h *Handler) handleListSupervisors(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	active, err := shared.QueryBool(r, "activo")
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "activo", Reason: "must be a boolean"}})
		return
	}
	supervisors, err := h.Service.ListSupervisors(r.Context(), active)
	if err != nil {
		fail(w, r, err, "supervisor_list_failed", "failed to list supervisors")
		return
	}
	api.Success(w, supervisors, requestID)
}

func (h *Handler) handleGetSupervisor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sup, err := h.Service.GetSupervisor(r.Context(), id)
	if err != nil {
		fail(w, r, err, "supervisor_get_failed", "failed to load supervisor")
		return
	}
	api.Success(w, sup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateSupervisor(w http.ResponseWriter, r *http.Request) {
	var payload supervisorRequest
	if !decode(w, r, &payload) {
		return
	}
	sup, err := h.Service.CreateSupervisor(r.Context(), core.Supervisor{
		Name:           payload.Name,
		Position:       payload.Position,
		EmployeeNumber: payload.EmployeeNumber,
		EvaluatorIDs:   payload.EvaluatorIDs,
	})
	if err != nil {
		fail(w, r, err, "supervisor_create_failed", "failed to create supervisor")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionSupervisorCreated, "supervisor", strconv.FormatInt(sup.ID, 10), nil, sup)
	api.Created(w, sup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSupervisor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload supervisorRequest
	if !decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetSupervisor(r.Context(), id)
	if err != nil {
		fail(w, r, err, "supervisor_update_failed", "failed to update supervisor")
		return
	}
	if err := h.Service.UpdateSupervisor(r.Context(), id, core.Supervisor{
		Name:           payload.Name,
		Position:       payload.Position,
		EmployeeNumber: payload.EmployeeNumber,
	}); err != nil {
		fail(w, r, err, "supervisor_update_failed", "failed to update supervisor")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionSupervisorUpdated, "supervisor", strconv.FormatInt(id, 10), before, payload)
	api.Success(w, map[string]any{"id": id, "status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggleSupervisor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	active, err := h.Service.ToggleSupervisorActive(r.Context(), id)
	if err != nil {
		fail(w, r, err, "supervisor_toggle_failed", "failed to change supervisor status")
		return
	}
	resp := toggleResponse{ID: id, Active: active}
	shared.Audit(r, h.Audit, actor(r), audit.ActionSupervisorToggled, "supervisor", strconv.FormatInt(id, 10), nil, resp)
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSupervisorEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	active, err := shared.QueryBool(r, "activo")
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "activo", Reason: "must be a boolean"}})
		return
	}
	employees, err := h.Service.SupervisorEmployees(r.Context(), id, active)
	if err != nil {
		fail(w, r, err, "supervisor_roster_failed", "failed to list supervisor employees")
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetEvaluators(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload evaluatorsRequest
	if !decode(w, r, &payload) {
		return
	}
	rec, err := h.Service.SetSupervisorEvaluators(r.Context(), id, payload.UserIDs)
	if err != nil {
		fail(w, r, err, "supervisor_evaluators_failed", "failed to update supervisor evaluators")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionSupervisorEvaluators, "supervisor", strconv.FormatInt(id, 10), nil, rec)
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}
