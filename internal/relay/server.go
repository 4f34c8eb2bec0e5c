package relay

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/cellwire/cellwire/internal/observability"
	"github.com/cellwire/cellwire/internal/protocol"
)

// Config shapes one relay server instance.
type Config struct {
	Host            string
	Port            int
	MaxPortAttempts int
	AllowedOrigins  []string
}

func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8765,
		MaxPortAttempts: 10,
	}
}

// Server owns the relay HTTP plane and the connection registry.
type Server struct {
	cfg      Config
	registry *Registry
	router   *Router
	upgrader websocket.Upgrader
	engine   *gin.Engine

	started   time.Time
	connSeq   atomic.Uint64
	boundPort atomic.Int64
	httpSrv   *http.Server
	serveErr  chan error
}

func NewServer(cfg Config) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	registry := NewRegistry()
	s := &Server{
		cfg:      cfg,
		registry: registry,
		router:   NewRouter(registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		started: time.Now(),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(observability.RequestLogger(log.Logger))
	engine.Use(observability.RequestMetricsMiddleware())
	engine.GET("/ws", s.handleWS)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine = engine
	return s
}

// Start binds the listener (with port fallback) and serves in the
// background until ctx is cancelled. Only a bind failure is returned here.
func (s *Server) Start(ctx context.Context) error {
	ln, port, err := Listen(s.cfg.Host, s.cfg.Port, s.cfg.MaxPortAttempts)
	if err != nil {
		return err
	}
	s.boundPort.Store(int64(port))
	log.Info().
		Str("addr", ln.Addr().String()).
		Int("requested_port", s.cfg.Port).
		Int("bound_port", port).
		Msg("relay: listening")

	s.httpSrv = &http.Server{Handler: s.engine}
	s.serveErr = make(chan error, 1)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		// Shutdown does not reach hijacked websocket connections.
		s.registry.CloseAll()
	}()
	go func() {
		err := s.httpSrv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.serveErr <- err
	}()
	return nil
}

// Wait blocks until the serve loop exits.
func (s *Server) Wait() error {
	return <-s.serveErr
}

// Run starts the relay and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait()
}

// BoundPort returns the port actually bound, which may differ from the
// requested one after fallback.
func (s *Server) BoundPort() int {
	return int(s.boundPort.Load())
}

func (s *Server) handleHealth(c *gin.Context) {
	hosts, callers := s.registry.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime":         time.Since(s.started).String(),
		"host_connected": hosts == 1,
		"callers":        callers,
	})
}

func (s *Server) handleWS(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("relay: websocket upgrade failed")
		return
	}
	s.serveConn(ws)
}

// serveConn runs one connection lifecycle: handshake, registration, then
// the read loop feeding the router until the socket closes.
func (s *Server) serveConn(ws *websocket.Conn) {
	conn := newConn("conn-"+strconv.FormatUint(s.connSeq.Add(1), 10), ws)

	_, data, err := ws.ReadMessage()
	if err != nil {
		_ = ws.Close()
		return
	}
	hs, err := protocol.DecodeHandshake(data)
	if err != nil {
		// Protocol error: drop without registration.
		log.Warn().
			Str("conn", conn.ID()).
			Str("remote", conn.RemoteAddr()).
			Err(err).
			Msg("relay: malformed handshake")
		_ = ws.Close()
		return
	}

	if hs.IsHost() {
		conn.setRole(protocol.RoleHost)
		if prev := s.registry.SetHost(conn); prev != nil {
			log.Warn().
				Str("conn", conn.ID()).
				Str("displaced", prev.ID()).
				Msg("relay: host replaced")
			_ = prev.Close()
		}
		log.Info().
			Str("conn", conn.ID()).
			Str("remote", conn.RemoteAddr()).
			Msg("relay: host connected")
	} else {
		conn.setRole(protocol.RoleCaller)
		s.registry.AddCaller(conn)
		log.Info().
			Str("conn", conn.ID()).
			Str("remote", conn.RemoteAddr()).
			Str("role", hs.Role).
			Msg("relay: caller connected")
	}
	s.publishConnGauges()

	defer func() {
		s.registry.Remove(conn)
		_ = conn.Close()
		s.publishConnGauges()
		log.Info().
			Str("conn", conn.ID()).
			Str("role", conn.Role()).
			Msg("relay: disconnected")
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		s.router.Route(conn, data)
	}
}

func (s *Server) publishConnGauges() {
	hosts, callers := s.registry.Counts()
	observability.SetConnections(protocol.RoleHost, hosts)
	observability.SetConnections(protocol.RoleCaller, callers)
}

// originChecker allows all origins when none are configured; the relay is a
// loopback development bridge by default.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
