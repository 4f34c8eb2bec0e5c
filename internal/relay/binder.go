package relay

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Listen binds the relay listener on startPort, retrying on sequentially
// incremented ports while the address is in use, up to maxAttempts tries.
// Any other bind failure propagates immediately. The returned port is the
// one actually bound; callers must advertise it, not the requested port.
func Listen(host string, startPort, maxAttempts int) (net.Listener, int, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	var lastErr error
	port := startPort
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			if addr, ok := ln.Addr().(*net.TCPAddr); ok {
				// Resolves an ephemeral request (port 0) to the real port.
				port = addr.Port
			}
			return ln, port, nil
		}
		if !isAddrInUse(err) {
			return nil, 0, err
		}
		log.Warn().Int("port", port).Msg("relay: port busy, trying next")
		lastErr = err
		port++
	}
	return nil, 0, fmt.Errorf("relay: could not bind any port after %d attempts: %w", maxAttempts, lastErr)
}

func isAddrInUse(err error) bool {
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Platform-dependent wrapping can hide the errno.
	return strings.Contains(err.Error(), "address already in use")
}
