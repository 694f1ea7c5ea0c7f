package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codepair",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"service", "method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codepair",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})

	// ConnectionsActive tracks live websocket sessions across all rooms.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "codepair",
		Name:      "ws_connections_active",
		Help:      "Current number of attached websocket connections",
	})

	// RoomsActive tracks rooms with at least one attached connection.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "codepair",
		Name:      "ws_rooms_active",
		Help:      "Current number of rooms with live members",
	})

	BroadcastDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codepair",
		Name:      "ws_broadcast_deliveries_total",
		Help:      "Total number of per-recipient broadcast deliveries attempted",
	})

	BroadcastFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codepair",
		Name:      "ws_broadcast_failures_total",
		Help:      "Total number of per-recipient broadcast deliveries that failed",
	})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack must be forwarded or websocket upgrades through this middleware fail.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, fmt.Errorf("metrics: underlying ResponseWriter does not support hijacking")
}

// Middleware records request metrics with Prometheus labels.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			labels := prometheus.Labels{
				"service": service,
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler { return promhttp.Handler() }
