package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecord(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, http.StatusOK, 20*time.Millisecond)
	c.Record(http.MethodPost, http.StatusTooManyRequests, time.Millisecond)
	c.RecordEvaluation(2, 18)
	c.RecordFailure("validation")

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.submissions))
	assert.Equal(t, 18.0, testutil.ToFloat64(c.rowsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.recordFailure.WithLabelValues("validation")))
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.RecordEvaluation(1, 9)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "perfeval_evaluation_rows_total 9"))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, http.StatusOK, time.Millisecond)
	c.RecordEvaluation(1, 1)
	c.RecordFailure("x")
}
