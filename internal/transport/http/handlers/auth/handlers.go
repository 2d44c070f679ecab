package authhandler

import (
	"context"
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

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, id int64) (core.User, error)
}

type Handler struct {
	Auth  Authenticator
	Users UserDirectory
}

func NewHandler(authService Authenticator, users UserDirectory) *Handler {
	return &Handler{Auth: authService, Users: users}
}

// RegisterPublicRoutes mounts the routes that run before authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.HandleMe)
}

type loginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}

type sessionUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int64  `json:"roleId"`
	Role   string `json:"role"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}
	if err != nil {
		slog.Error("login failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", requestID)
		return
	}

	api.Success(w, loginResponse{
		Token: result.Token,
		User: sessionUser{
			ID:     result.User.ID,
			Name:   result.User.Name,
			Email:  result.User.Email,
			RoleID: result.User.RoleID,
			Role:   result.User.RoleName,
		},
	}, requestID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	profile, err := h.Users.GetUser(r.Context(), user.UserID)
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "user no longer exists", requestID)
		return
	}
	if err != nil {
		slog.Error("load current user failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "user_lookup_failed", "failed to load user", requestID)
		return
	}

	api.Success(w, map[string]any{
		"user":        profile,
		"permissions": auth.RolePermissions[user.RoleName],
	}, requestID)
}
