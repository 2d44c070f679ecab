package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests and multiple servers never
// collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rateLimited prometheus.Counter

	submissions   prometheus.Counter
	rowsRecorded  prometheus.Counter
	recordFailure *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perfeval_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "perfeval_http_request_duration_seconds",
			Help:    "HTTP request latency by method",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perfeval_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perfeval_evaluation_submissions_total",
			Help: "Employee submissions persisted by the recorder",
		}),
		rowsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perfeval_evaluation_rows_total",
			Help: "Evaluation rows persisted by the recorder",
		}),
		recordFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "perfeval_evaluation_record_failures_total",
			Help: "Rejected or failed recording batches by reason",
		}, []string{"reason"}),
	}
	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.rateLimited,
		c.submissions,
		c.rowsRecorded,
		c.recordFailure,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) RecordEvaluation(submissions, rows int) {
	if c == nil {
		return
	}
	c.submissions.Add(float64(submissions))
	c.rowsRecorded.Add(float64(rows))
}

func (c *Collector) RecordFailure(reason string) {
	if c == nil {
		return
	}
	c.recordFailure.WithLabelValues(reason).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
