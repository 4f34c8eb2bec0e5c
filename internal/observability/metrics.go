package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cellwire",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests on the relay plane.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cellwire",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	relayConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cellwire",
			Subsystem: "relay",
			Name:      "connections",
			Help:      "Currently registered connections by role.",
		},
		[]string{"role"},
	)
	relayFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cellwire",
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Frames routed, by classified kind.",
		},
		[]string{"kind"},
	)
	relayNoHostErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cellwire",
			Subsystem: "relay",
			Name:      "no_host_errors_total",
			Help:      "Commands answered with a synthesized no-host error.",
		},
	)
	relayDroppedFrames = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cellwire",
			Subsystem: "relay",
			Name:      "dropped_frames_total",
			Help:      "Frames dropped for an unrecognized type.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			relayConnections, relayFrames,
			relayNoHostErrors, relayDroppedFrames,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

func SetConnections(role string, count int) {
	RegisterMetrics()
	relayConnections.WithLabelValues(role).Set(float64(count))
}

func RecordFrame(kind string) {
	RegisterMetrics()
	relayFrames.WithLabelValues(kind).Inc()
}

func RecordNoHostError() {
	RegisterMetrics()
	relayNoHostErrors.Inc()
}

func RecordDroppedFrame() {
	RegisterMetrics()
	relayDroppedFrames.Inc()
}
