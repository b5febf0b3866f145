package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry bundles the Prometheus collectors of the service on a private
// registry. A nil *Telemetry is valid and records nothing.
type Telemetry struct {
	Registry        *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	DatasetRows     *prometheus.GaugeVec
	Selections      prometheus.Counter
	EmptySelections prometheus.Counter
}

func NewTelemetry() *Telemetry {
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "novaretail",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "novaretail",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "novaretail",
			Name:      "dataset_rows",
			Help:      "Rows loaded per table.",
		}, []string{"table"}),
		Selections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "novaretail",
			Name:      "channel_selections_total",
			Help:      "Channel filters applied.",
		}),
		EmptySelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "novaretail",
			Name:      "empty_selections_total",
			Help:      "Channel filters rejected for selecting nothing.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		t.HTTPRequests, t.HTTPDuration, t.DatasetRows, t.Selections, t.EmptySelections,
	)
	return t
}

func (t *Telemetry) Handler() http.Handler {
	if t == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{Registry: t.Registry})
}

func (t *Telemetry) SetRows(table string, n int) {
	if t == nil {
		return
	}
	t.DatasetRows.WithLabelValues(table).Set(float64(n))
}

func (t *Telemetry) ObserveSelection(empty bool) {
	if t == nil {
		return
	}
	if empty {
		t.EmptySelections.Inc()
		return
	}
	t.Selections.Inc()
}

// Instrument records request count and latency per chi route pattern.
func (t *Telemetry) Instrument(next http.Handler) http.Handler {
	if t == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		t.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		t.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
