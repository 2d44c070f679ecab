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

type employeeRequest struct {
	Name           string  `json:"nombre" validate:"required,max=120"`
	Position       string  `json:"puesto" validate:"max=120"`
	EmployeeNumber string  `json:"numero_empleado" validate:"max=40"`
	SupervisorIDs  []int64 `json:"encargados"`
}

func (req employeeRequest) employee() core.Employee {
	return core.Employee{
		Name:           req.Name,
		Position:       req.Position,
		EmployeeNumber: req.EmployeeNumber,
		SupervisorIDs:  req.SupervisorIDs,
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	supervisorID, err := shared.QueryID(r, "encargado_id")
	if err != nil {
		v.Add("encargado_id", "must be a positive integer")
	}
	active, err := shared.QueryBool(r, "activo")
	if err != nil {
		v.Add("activo", "must be a boolean")
	}
	if v.Reject(w, requestID) {
		return
	}

	employees, err := h.Service.ListEmployees(r.Context(), core.EmployeeFilter{SupervisorID: supervisorID, Active: active})
	if err != nil {
		fail(w, r, err, "employee_list_failed", "failed to list employees")
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		fail(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if !decode(w, r, &payload) {
		return
	}
	emp, err := h.Service.CreateEmployee(r.Context(), payload.employee())
	if err != nil {
		fail(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionEmployeeCreated, "employee", strconv.FormatInt(emp.ID, 10), nil, emp)
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload employeeRequest
	if !decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		fail(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	rec, err := h.Service.UpdateEmployee(r.Context(), id, payload.employee())
	if err != nil {
		fail(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionEmployeeUpdated, "employee", strconv.FormatInt(id, 10), before, payload)
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggleEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	active, err := h.Service.ToggleEmployeeActive(r.Context(), id)
	if err != nil {
		fail(w, r, err, "employee_toggle_failed", "failed to change employee status")
		return
	}
	resp := toggleResponse{ID: id, Active: active}
	shared.Audit(r, h.Audit, actor(r), audit.ActionEmployeeToggled, "employee", strconv.FormatInt(id, 10), nil, resp)
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}
