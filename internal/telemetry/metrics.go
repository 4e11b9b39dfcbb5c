package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates Prometheus instrumentation for the HTTP layer and the
// CSP engine itself: request latency alongside backtrack/assignment counts
// pulled out of each generator.Generate call's csp.SolverStats.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	solveRuntime     prometheus.Histogram
	solveBacktracks  prometheus.Counter
	solveAssignments prometheus.Counter
	generateFailures *prometheus.CounterVec
}

// New registers the collectors and returns a ready-to-use Metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	solveRuntime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "csp_solve_runtime_seconds",
		Help:    "Wall-clock runtime of a single Solver.Solve call",
		Buckets: prometheus.DefBuckets,
	})

	solveBacktracks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "csp_solve_backtracks_total",
		Help: "Total backtracks performed across all Solver.Solve calls",
	})

	solveAssignments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "csp_solve_assignments_total",
		Help: "Total variable assignments attempted across all Solver.Solve calls",
	})

	generateFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generate_failures_total",
		Help: "Total Generate calls that did not produce a full timetable, by reason",
	}, []string{"reason"})

	registry.MustRegister(requestDuration, requestTotal, solveRuntime, solveBacktracks, solveAssignments, generateFailures)

	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		solveRuntime:     solveRuntime,
		solveBacktracks:  solveBacktracks,
		solveAssignments: solveAssignments,
		generateFailures: generateFailures,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSolverStats folds one level's csp.SolverStats into the solve
// histograms/counters. Callers pass runtime/backtracks/assignments rather
// than a csp.SolverStats value directly so this package never imports
// internal/csp.
func (m *Metrics) ObserveSolverStats(runtime time.Duration, backtracks, assignments int) {
	if m == nil {
		return
	}
	m.solveRuntime.Observe(runtime.Seconds())
	m.solveBacktracks.Add(float64(backtracks))
	m.solveAssignments.Add(float64(assignments))
}

// ObserveGenerateFailure increments the failure counter for reason, one of
// "catalogue", "infeasible", "timeout", or "unknown".
func (m *Metrics) ObserveGenerateFailure(reason string) {
	if m == nil {
		return
	}
	m.generateFailures.WithLabelValues(reason).Inc()
}
