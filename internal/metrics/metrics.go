// Package metrics holds the Prometheus collectors for the game service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hangman"

// Metrics owns a registry and the collectors registered on it.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	httpInFlight prometheus.Gauge

	guesses          *prometheus.CounterVec
	gamesCreated     prometheus.Counter
	gamesFinished    *prometheus.CounterVec
	averageRemaining prometheus.Gauge
	remindersSent    prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests received",
		}, []string{"method", "route", "status"}),

		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),

		guesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses submitted, by kind (letter or word) and outcome",
		}, []string{"kind", "outcome"}),

		gamesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Games created",
		}),

		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that ended, by result (won, lost or cancelled)",
		}, []string{"result"}),

		averageRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_attempts_remaining",
			Help:      "Last computed average of attempts remaining across active games",
		}),

		remindersSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Reminder emails sent",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGuess counts one guess
func (m *Metrics) ObserveGuess(kind, outcome string) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(kind, outcome).Inc()
}

// GameCreated counts a new game
func (m *Metrics) GameCreated() {
	if m == nil {
		return
	}
	m.gamesCreated.Inc()
}

// GameFinished counts a game reaching a terminal state
func (m *Metrics) GameFinished(result string) {
	if m == nil {
		return
	}
	m.gamesFinished.WithLabelValues(result).Inc()
}

// ObserveAverage records a freshly computed average
func (m *Metrics) ObserveAverage(avg float64) {
	if m == nil {
		return
	}
	m.averageRemaining.Set(avg)
}

// ReminderSent counts one reminder email
func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request count and latency. Requests are labelled with
// the matched chi route pattern so ids in the path do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		m.httpRequests.With(labels).Inc()
		m.httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}
