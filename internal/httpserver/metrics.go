package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics groups the server's collectors on a private registry so tests can build
// many servers without duplicate-registration panics.
type metrics struct {
	reg *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	gamesStarted  *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	historyRows   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duo_http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "duo_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duo_games_started_total",
			Help: "Server-side games started.",
		}, []string{"game_mode", "challenge"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duo_games_finished_total",
			Help: "Server-side games finished, by result.",
		}, []string{"game_mode", "challenge", "result"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duo_guesses_total",
			Help: "Committed guesses; invalid words are counted separately.",
		}, []string{"valid"}),
		historyRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duo_history_rows_upserted_total",
			Help: "History rows written through /sync/stats and finished games.",
		}),
	}
	m.reg.MustRegister(
		m.requests, m.duration, m.gamesStarted, m.gamesFinished, m.guesses, m.historyRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// instrument records request count and latency per chi route pattern.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
