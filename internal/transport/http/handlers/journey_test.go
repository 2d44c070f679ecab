package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"perfeval/internal/app/server"
	"perfeval/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func TestEvaluationJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:            dbURL,
		JWTSecret:              "test-secret",
		JWTTTL:                 time.Hour,
		Environment:            "test",
		Timezone:               "UTC",
		MigrationsDir:          "../../../../migrations",
		SeedAdminName:          "Admin",
		SeedAdminEmail:         "admin@test.local",
		SeedAdminPassword:      "ChangeMe123!",
		RunMigrations:          true,
		RunSeed:                true,
		MaxBodyBytes:           1048576,
		RateLimitPerMinute:     1000,
		MaxRawScore:            5,
		NotificationWindowDays: 60,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	suffix := time.Now().UnixNano()

	var supervisor struct {
		ID int64 `json:"id"`
	}
	call(t, client, http.MethodPost, ts.URL+"/api/encargados", token, map[string]any{
		"nombre":          "Encargada Journey",
		"numero_empleado": fmt.Sprintf("S-%d", suffix),
	}, http.StatusCreated, &supervisor)

	var employee struct {
		ID int64 `json:"id"`
	}
	call(t, client, http.MethodPost, ts.URL+"/api/empleados", token, map[string]any{
		"nombre":          "Empleado Journey",
		"numero_empleado": fmt.Sprintf("E-%d", suffix),
		"encargados":      []int64{supervisor.ID},
	}, http.StatusCreated, &employee)

	var aspects []struct {
		Text string `json:"text"`
	}
	call(t, client, http.MethodGet, ts.URL+"/api/preguntas", token, nil, http.StatusOK, &aspects)
	if len(aspects) == 0 {
		t.Fatal("expected a seeded aspect catalog")
	}
	scores := map[string]int{}
	for _, a := range aspects {
		scores[a.Text] = 5
	}

	var recorded struct {
		Rows int `json:"rows"`
	}
	call(t, client, http.MethodPost, ts.URL+"/api/evaluacion/nueva", token, map[string]any{
		"idEncargado": supervisor.ID,
		"payload": []map[string]any{
			{"empleado_id": employee.ID, "calificaciones": scores, "comentarios": []string{"excelente"}},
		},
	}, http.StatusOK, &recorded)
	if recorded.Rows != len(aspects) {
		t.Fatalf("expected %d rows, got %d", len(aspects), recorded.Rows)
	}

	var report struct {
		Employees []struct {
			EmployeeID int64    `json:"employeeId"`
			Score      *float64 `json:"score"`
		} `json:"employees"`
	}
	call(t, client, http.MethodGet, fmt.Sprintf("%s/api/evaluaciones?encargado_id=%d", ts.URL, supervisor.ID), token, nil, http.StatusOK, &report)
	if len(report.Employees) != 1 || report.Employees[0].Score == nil || *report.Employees[0].Score != 100 {
		t.Fatalf("unexpected supervisor report: %+v", report)
	}

	var items []struct {
		ID     int64 `json:"id"`
		Action int   `json:"action"`
	}
	call(t, client, http.MethodGet, fmt.Sprintf("%s/api/notificaciones?encargado_id=%d", ts.URL, supervisor.ID), token, nil, http.StatusOK, &items)
	if len(items) != 2 {
		t.Fatalf("expected assignment and evaluation notifications, got %+v", items)
	}
	ids := []int64{items[0].ID, items[1].ID}
	var deactivated struct {
		Changed int64 `json:"changed"`
	}
	call(t, client, http.MethodPost, ts.URL+"/api/notificaciones/desactivar", token, map[string]any{"ids": ids}, http.StatusOK, &deactivated)
	if deactivated.Changed != 2 {
		t.Fatalf("expected 2 notifications changed, got %d", deactivated.Changed)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/evaluaciones/exportar-csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Empleado Journey") {
		t.Fatalf("unexpected export: %d %s", resp.StatusCode, body)
	}

	var events []struct {
		Action string `json:"action"`
	}
	call(t, client, http.MethodGet, ts.URL+"/api/auditoria?action=evaluation.recorded&limit=1", token, nil, http.StatusOK, &events)
	if len(events) != 1 {
		t.Fatalf("expected an evaluation audit event, got %+v", events)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	call(t, client, http.MethodPost, baseURL+"/api/login", "", map[string]string{"correo": email, "contrasena": password}, http.StatusOK, &out)
	if out.Token == "" {
		t.Fatal("expected a token")
	}
	return out.Token
}

func call(t *testing.T, client *http.Client, method, url, token string, payload any, wantStatus int, out any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, url, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d (%v)", method, url, wantStatus, resp.StatusCode, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("%s %s: decode data: %v", method, url, err)
		}
	}
}
