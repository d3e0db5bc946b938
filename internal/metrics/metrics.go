package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Breakdown metrics
	BreakdownsTotal        *prometheus.CounterVec
	BreakdownDuration      prometheus.Histogram
	MissingIngredientCosts prometheus.Counter
	SkippedTaskAssignments prometheus.Counter
	LowStockItems          prometheus.Gauge

	// Database operation metrics
	DBOperationDuration *prometheus.HistogramVec
}

// New registers the collectors on reg with the given name prefix.
func New(reg *prometheus.Registry, prefix string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		BreakdownsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_breakdowns_total",
				Help: "Total number of product breakdown requests by outcome",
			},
			[]string{"outcome"},
		),
		BreakdownDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_breakdown_duration_seconds",
				Help:    "Duration of product breakdown computations in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		MissingIngredientCosts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_missing_ingredient_costs_total",
				Help: "Ingredients left out of a breakdown for lack of purchase history",
			},
		),
		SkippedTaskAssignments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_skipped_task_assignments_total",
				Help: "Task assignments left out of a breakdown for lack of an employee or task",
			},
		),
		LowStockItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: prefix + "_low_stock_items",
				Help: "Inventory items at or below their reorder threshold at the last stock check",
			},
		),
		DBOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		),
	}
}

// ObserveBreakdown records one breakdown request.
func (m *Metrics) ObserveBreakdown(outcome string, elapsed time.Duration, missingIngredients, skippedTasks int) {
	m.BreakdownsTotal.WithLabelValues(outcome).Inc()
	m.BreakdownDuration.Observe(elapsed.Seconds())
	m.MissingIngredientCosts.Add(float64(missingIngredients))
	m.SkippedTaskAssignments.Add(float64(skippedTasks))
}

// ObserveStockLevels records how many items were low at the last stock check.
func (m *Metrics) ObserveStockLevels(lowStock int) {
	m.LowStockItems.Set(float64(lowStock))
}

// TrackDBOperation returns a function that records the duration of a database operation.
func (m *Metrics) TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		m.DBOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// Middleware records request counts and durations labelled by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, path, strconv.Itoa(status)}

		m.HTTPRequestsTotal.WithLabelValues(labels...).Inc()
		m.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
