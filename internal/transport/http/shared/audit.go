package shared

import (
	"context"
	"log/slog"
	"net/http"

	"perfeval/internal/requestctx"
)

type AuditRecorder interface {
	Record(ctx context.Context, actorID int64, action, entityType, entityID, requestID, ip string, before, after any) error
}

// Audit records a mutation on behalf of the request. Failures are logged and
// never fail the request.
func Audit(r *http.Request, recorder AuditRecorder, actorID int64, action, entityType, entityID string, before, after any) {
	if recorder == nil {
		return
	}
	requestID := requestctx.GetRequestID(r.Context())
	if err := recorder.Record(r.Context(), actorID, action, entityType, entityID, requestID, ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "requestId", requestID, "err", err)
	}
}
