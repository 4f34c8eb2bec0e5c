package relay

import (
	"net"
	"strings"
	"testing"

	"github.com/cellwire/cellwire/internal/testutil/testlog"
)

func TestListenFallsBackWhenPortBusy(t *testing.T) {
	testlog.Start(t)

	// Occupy an ephemeral port, then ask for it explicitly.
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("occupy port: %v", err)
	}
	defer occupied.Close()
	busyPort := occupied.Addr().(*net.TCPAddr).Port

	ln, port, err := Listen("127.0.0.1", busyPort, 5)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if port == busyPort {
		t.Fatalf("bound the occupied port %d", busyPort)
	}
	if port < busyPort+1 || port > busyPort+4 {
		t.Fatalf("bound port %d outside fallback window starting at %d", port, busyPort)
	}
	if got := ln.Addr().(*net.TCPAddr).Port; got != port {
		t.Fatalf("reported port %d, listener bound %d", port, got)
	}
}

func TestListenResolvesEphemeralPort(t *testing.T) {
	testlog.Start(t)

	ln, port, err := Listen("127.0.0.1", 0, 1)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if port == 0 {
		t.Fatalf("ephemeral bind reported port 0")
	}
	if got := ln.Addr().(*net.TCPAddr).Port; got != port {
		t.Fatalf("reported port %d, listener bound %d", port, got)
	}
}

func TestListenExhaustsAttempts(t *testing.T) {
	testlog.Start(t)

	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("occupy port: %v", err)
	}
	defer occupied.Close()
	busyPort := occupied.Addr().(*net.TCPAddr).Port

	_, _, err = Listen("127.0.0.1", busyPort, 1)
	if err == nil {
		t.Fatalf("expected exhaustion error")
	}
	if !strings.Contains(err.Error(), "could not bind any port after 1 attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListenPropagatesNonBusyErrors(t *testing.T) {
	testlog.Start(t)

	// An unroutable host fails for a reason other than a busy port; no
	// fallback should happen.
	_, _, err := Listen("256.256.256.256", 9000, 3)
	if err == nil {
		t.Fatalf("expected bind error for invalid host")
	}
	if strings.Contains(err.Error(), "could not bind any port") {
		t.Fatalf("non-busy error went through fallback: %v", err)
	}
}
