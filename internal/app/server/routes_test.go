package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"perfeval/internal/domain/auth"
	"perfeval/internal/platform/config"
	"perfeval/internal/platform/metrics"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:              "router-test-secret",
		JWTTTL:                 time.Hour,
		Environment:            "test",
		Timezone:               "UTC",
		MaxBodyBytes:           1 << 20,
		RateLimitPerMinute:     1000,
		NotificationWindowDays: 60,
	}
}

func TestRouterProbes(t *testing.T) {
	router := NewRouter(testConfig(), nil, metrics.New())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without a pool: expected 503, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "perfeval_http_requests_total") {
		t.Fatalf("metrics: %d", rec.Code)
	}
}

func TestRouterWithoutMetrics(t *testing.T) {
	router := NewRouter(testConfig(), nil, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when metrics are disabled, got %d", rec.Code)
	}
}

func TestAPIRequiresAuthentication(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(cfg, nil, nil)

	for _, path := range []string{"/api/me", "/api/evaluaciones/todas", "/api/empleados", "/api/notificaciones", "/api/auditoria"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: 2, RoleID: 3, RoleName: auth.RoleSupervisor}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auditoria", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("supervisor on audit log: expected 403, got %d", rec.Code)
	}
}

func TestLoginValidatesBeforeTouchingTheStore(t *testing.T) {
	router := NewRouter(testConfig(), nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"correo":"no-es-correo"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}
