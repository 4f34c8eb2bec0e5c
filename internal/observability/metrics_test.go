package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cellwire/cellwire/internal/testutil/testlog"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	testlog.Start(t)
	// A second registration must not panic the default registry.
	RegisterMetrics()
	RegisterMetrics()
}

func TestRecorders(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()

	RecordFrame("command")
	RecordFrame("command")
	if got := testutil.ToFloat64(relayFrames.WithLabelValues("command")); got < 2 {
		t.Fatalf("frames_total{kind=command} = %v, want >= 2", got)
	}

	before := testutil.ToFloat64(relayNoHostErrors)
	RecordNoHostError()
	if got := testutil.ToFloat64(relayNoHostErrors); got != before+1 {
		t.Fatalf("no_host_errors_total = %v, want %v", got, before+1)
	}

	SetConnections("host", 1)
	if got := testutil.ToFloat64(relayConnections.WithLabelValues("host")); got != 1 {
		t.Fatalf("connections{role=host} = %v, want 1", got)
	}
	SetConnections("host", 0)

	RecordDroppedFrame()
	RecordHTTPRequest("GET", "/healthz", 200, 5*time.Millisecond)
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/healthz", "200")); got < 1 {
		t.Fatalf("requests_total = %v, want >= 1", got)
	}
}
