package evaluationhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"perfeval/internal/domain/audit"
	"perfeval/internal/domain/auth"
	"perfeval/internal/domain/evaluation"
	"perfeval/internal/domain/notifications"
	"perfeval/internal/domain/reports"
	"perfeval/internal/transport/http/api"
	"perfeval/internal/transport/http/middleware"
	"perfeval/internal/transport/http/shared"
)

const recordEndpoint = "evaluation.record"

type Notifier interface {
	Notify(ctx context.Context, supervisorIDs []int64, employeeID int64, action int)
}

type IdempotencyStore interface {
	Check(ctx context.Context, userID int64, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID int64, endpoint, key, requestHash string, response json.RawMessage) error
}

type Metrics interface {
	RecordEvaluation(submissions, rows int)
	RecordFailure(reason string)
}

type Handler struct {
	Service     *evaluation.Service
	Perms       middleware.PermissionStore
	Notifier    Notifier
	Audit       shared.AuditRecorder
	Idempotency IdempotencyStore
	Metrics     Metrics
}

func NewHandler(service *evaluation.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEvaluationsRead, h.Perms)

	r.With(middleware.RequirePermission(auth.PermEvaluationsSubmit, h.Perms)).Post("/evaluacion/nueva", h.handleRecord)
	r.With(read).Get("/preguntas", h.handleAspects)
	r.Route("/evaluaciones", func(r chi.Router) {
		r.With(read).Get("/", h.handleLatestMonth)
		r.With(read).Get("/todas", h.handleAllTime)
		r.With(read).Get("/filtradas", h.handleFiltered)
		r.With(read).Get("/aspectos", h.handleByAspect)
		r.With(read).Get("/promedio-encargados", h.handleBySupervisor)
		r.With(read).Get("/empleado/{id}", h.handleEmployee)
		r.With(middleware.RequirePermission(auth.PermEvaluationsExport, h.Perms)).Get("/exportar-csv", h.handleExport)
	})
}

type recordRequest struct {
	SupervisorID int64               `json:"idEncargado"`
	Payload      []submissionRequest `json:"payload"`
}

type submissionRequest struct {
	EmployeeID int64          `json:"empleado_id"`
	Scores     map[string]int `json:"calificaciones"`
	Comments   commentList    `json:"comentarios"`
	Absent     bool           `json:"ausente"`
}

// commentList accepts either a single string or a list of strings.
type commentList []string

func (c *commentList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}
	if trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if single == "" {
			*c = nil
			return nil
		}
		*c = commentList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*c = many
	return nil
}

func (req recordRequest) submissions() []evaluation.Submission {
	subs := make([]evaluation.Submission, 0, len(req.Payload))
	for _, item := range req.Payload {
		subs = append(subs, evaluation.Submission{
			EmployeeID: item.EmployeeID,
			Scores:     item.Scores,
			Comments:   item.Comments,
			Absent:     item.Absent,
		})
	}
	return subs
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, recordEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", requestID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), requestID)
			return
		}
	}

	var req recordRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	result, err := h.Service.RecordBatch(r.Context(), req.SupervisorID, req.submissions())
	if err != nil {
		h.recordFailure(err)
		h.fail(w, r, err)
		return
	}

	if h.Notifier != nil {
		for _, employeeID := range result.EmployeeIDs {
			h.Notifier.Notify(r.Context(), []int64{result.SupervisorID}, employeeID, notifications.ActionEvaluationRecorded)
		}
	}
	if h.Metrics != nil {
		h.Metrics.RecordEvaluation(result.Submissions, result.Rows)
	}
	shared.Audit(r, h.Audit, user.UserID, audit.ActionEvaluationRecorded, "supervisor", strconv.FormatInt(result.SupervisorID, 10), nil, result)

	if idempotencyKey != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			slog.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, recordEndpoint, idempotencyKey, requestHash, encoded); err != nil {
			slog.Warn("idempotency save failed", "err", err)
		}
	}
	api.Success(w, result, requestID)
}

func (h *Handler) recordFailure(err error) {
	if h.Metrics == nil {
		return
	}
	reason := "internal"
	switch {
	case errors.Is(err, evaluation.ErrPersistence):
		reason = "persistence"
	case errors.Is(err, evaluation.ErrEmptyCatalog):
		reason = "catalog_empty"
	case errors.Is(err, evaluation.ErrSupervisorNotFound):
		reason = "supervisor_not_found"
	case errors.Is(err, evaluation.ErrIncompleteSubmission):
		reason = "validation"
	default:
		if _, ok := evaluation.IsValidation(err); ok {
			reason = "validation"
		}
	}
	h.Metrics.RecordFailure(reason)
}

func (h *Handler) handleAspects(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Service.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, catalog.Aspects(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLatestMonth(w http.ResponseWriter, r *http.Request) {
	supervisorID, ok := h.supervisorParam(w, r)
	if !ok {
		return
	}
	report, err := h.Service.LatestMonthReport(r.Context(), supervisorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAllTime(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.AllTimeReport(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFiltered(w http.ResponseWriter, r *http.Request) {
	supervisorID, ok := h.supervisorParam(w, r)
	if !ok {
		return
	}
	kind, value := periodParams(r)
	report, err := h.Service.WindowReport(r.Context(), supervisorID, kind, value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleByAspect(w http.ResponseWriter, r *http.Request) {
	kind, value := periodParams(r)
	report, err := h.Service.AspectReport(r.Context(), kind, value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBySupervisor(w http.ResponseWriter, r *http.Request) {
	kind, value := periodParams(r)
	report, err := h.Service.SupervisorReport(r.Context(), kind, value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := shared.URLParamID(r, "id")
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "id", Reason: "must be a positive integer"}})
		return
	}
	kind, value := periodParams(r)
	detail, err := h.Service.EmployeeDetail(r.Context(), employeeID, kind, value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	grouping := r.URL.Query().Get("agrupar")
	if grouping == "" {
		grouping = reports.GroupEmployee
	}
	format := r.URL.Query().Get("formato")
	if format == "" {
		format = reports.FormatCSV
	}

	v := shared.NewValidator()
	v.Enum("agrupar", grouping, reports.Groupings, "must be one of empleado, encargado, aspecto")
	v.Enum("formato", format, reports.Formats, "must be one of csv, json, pdf")
	if v.Reject(w, requestID) {
		return
	}

	kind, value := periodParams(r)
	var table reports.Table
	var window *evaluation.Window
	switch grouping {
	case reports.GroupSupervisor:
		report, err := h.Service.SupervisorReport(r.Context(), kind, value)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		table, window = reports.FromSupervisorReport(report), report.Window
	case reports.GroupAspect:
		report, err := h.Service.AspectReport(r.Context(), kind, value)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		table, window = reports.FromAspectReport(report), report.Window
	default:
		report, err := h.Service.EmployeeReportFor(r.Context(), kind, value)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		table, window = reports.FromEmployeeReport(report), report.Window
	}

	if format == reports.FormatJSON {
		api.Success(w, table, requestID)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	writeErr := reports.WriteCSV(&buf, table)
	if format == reports.FormatPDF {
		buf.Reset()
		contentType = "application/pdf"
		writeErr = reports.WritePDF(&buf, table)
	}
	if writeErr != nil {
		slog.Error("evaluation export failed", "format", format, "err", writeErr)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export evaluations", requestID)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+reports.Filename(grouping, window, format))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("evaluation export write failed", "err", err)
	}
}

func (h *Handler) supervisorParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	supervisorID, err := shared.QueryID(r, "encargado_id")
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "encargado_id", Reason: "must be a positive integer"}})
		return 0, false
	}
	return supervisorID, true
}

func periodParams(r *http.Request) (string, string) {
	q := r.URL.Query()
	return q.Get("periodo_tipo"), q.Get("periodo_valor")
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if verr, ok := evaluation.IsValidation(err); ok {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: verr.Field, Reason: verr.Reason}})
		return
	}
	switch {
	case errors.Is(err, evaluation.ErrIncompleteSubmission):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "payload", Reason: err.Error()}})
	case errors.Is(err, evaluation.ErrNoEvaluationsFound):
		api.Fail(w, http.StatusNotFound, "no_evaluations", "no evaluations found", requestID)
	case errors.Is(err, evaluation.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, evaluation.ErrSupervisorNotFound):
		api.Fail(w, http.StatusNotFound, "supervisor_not_found", "supervisor not found", requestID)
	case errors.Is(err, evaluation.ErrEmptyCatalog):
		api.Fail(w, http.StatusConflict, "catalog_empty", "aspect catalog is empty", requestID)
	case errors.Is(err, evaluation.ErrPersistence):
		slog.Error("evaluation batch rolled back", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "evaluation_persist_failed", "failed to save evaluations", requestID)
	default:
		slog.Error("evaluation request failed", "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "evaluation_failed", "failed to process evaluations", requestID)
	}
}
