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

type createUserRequest struct {
	Name     string `json:"nombre" validate:"required,max=120"`
	Email    string `json:"correo" validate:"required,email"`
	Role     string `json:"rol" validate:"required,oneof=admin evaluador encargado"`
	Password string `json:"contrasena" validate:"required,min=8,max=72"`
}

type updateUserRequest struct {
	Name     string `json:"nombre" validate:"required,max=120"`
	Email    string `json:"correo" validate:"required,email"`
	Role     string `json:"rol" validate:"required,oneof=admin evaluador encargado"`
	Password string `json:"contrasena" validate:"omitempty,min=8,max=72"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err, "user_list_failed", "failed to list users")
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		fail(w, r, err, "user_get_failed", "failed to load user")
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if !decode(w, r, &payload) {
		return
	}
	user, err := h.Service.CreateUser(r.Context(), core.User{Name: payload.Name, Email: payload.Email, Role: payload.Role}, payload.Password)
	if err != nil {
		fail(w, r, err, "user_create_failed", "failed to create user")
		return
	}
	shared.Audit(r, h.Audit, actor(r), audit.ActionUserCreated, "user", strconv.FormatInt(user.ID, 10), nil, user)
	api.Created(w, user, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload updateUserRequest
	if !decode(w, r, &payload) {
		return
	}
	before, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		fail(w, r, err, "user_update_failed", "failed to update user")
		return
	}
	if err := h.Service.UpdateUser(r.Context(), id, core.User{Name: payload.Name, Email: payload.Email, Role: payload.Role}, payload.Password); err != nil {
		fail(w, r, err, "user_update_failed", "failed to update user")
		return
	}
	after := map[string]any{"name": payload.Name, "email": payload.Email, "role": payload.Role, "passwordChanged": payload.Password != ""}
	shared.Audit(r, h.Audit, actor(r), audit.ActionUserUpdated, "user", strconv.FormatInt(id, 10), before, after)
	api.Success(w, map[string]any{"id": id, "status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToggleUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if id == actor(r) {
		api.Fail(w, http.StatusConflict, "self_deactivation", "cannot change the status of the current user", middleware.GetRequestID(r.Context()))
		return
	}
	active, err := h.Service.ToggleUserActive(r.Context(), id)
	if err != nil {
		fail(w, r, err, "user_toggle_failed", "failed to change user status")
		return
	}
	resp := toggleResponse{ID: id, Active: active}
	shared.Audit(r, h.Audit, actor(r), audit.ActionUserToggled, "user", strconv.FormatInt(id, 10), nil, resp)
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}
