package caller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cellwire/cellwire/internal/protocol"
)

// Config shapes one caller client.
type Config struct {
	// URL is the relay websocket endpoint, e.g. ws://127.0.0.1:8765/ws.
	URL string
	// DialTimeout bounds the websocket handshake on (re)connect.
	DialTimeout time.Duration
	// RequestTimeout bounds each command round trip.
	RequestTimeout time.Duration
}

func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		DialTimeout:    5 * time.Second,
		RequestTimeout: 60 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	return c
}

type command interface {
	Validate() error
}

type response struct {
	result protocol.Result
	err    error
}

// Client is the caller-side handle: one websocket to the relay, a pending
// table correlating commands to answers, and a fail-fast reconnect policy.
type Client struct {
	cfg Config

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan response
	closed  bool

	writeMu sync.Mutex
}

// NewClient builds a disconnected handle. The first command (or an explicit
// Connect) dials the relay.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrRelayURLRequired
	}
	return &Client{
		cfg:     cfg.withDefaults(),
		pending: make(map[string]chan response),
	}, nil
}

// Connect dials the relay and performs the caller handshake. It is a no-op
// when the connection is already live.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnectedLocked(ctx)
}

// Connected reports whether the handle currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close tears down the connection and fails every pending request.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	pending := c.pending
	c.pending = make(map[string]chan response)
	c.mu.Unlock()

	for requestID, ch := range pending {
		ch <- response{err: fmt.Errorf("%w: request_id=%s", ErrClientClosed, requestID)}
	}
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// ensureConnectedLocked applies the reconnection policy: exactly one dial
// and handshake attempt when the connection is down.
func (c *Client) ensureConnectedLocked(ctx context.Context) error {
	if c.closed {
		return ErrClientClosed
	}
	if c.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.DialTimeout}
	ws, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	hs, err := protocol.EncodeHandshake(protocol.RoleCaller)
	if err != nil {
		_ = ws.Close()
		return err
	}
	if err := ws.WriteMessage(websocket.TextMessage, hs); err != nil {
		_ = ws.Close()
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	c.conn = ws
	go c.listen(ws)
	log.Debug().Str("url", c.cfg.URL).Msg("caller: connected")
	return nil
}

// listen is the single reader for one connection lifetime. It resolves
// pending waiters by request_id; on read failure it fails everything still
// pending and marks the handle disconnected.
func (c *Client) listen(ws *websocket.Conn) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			c.handleDisconnect(ws, err)
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	result, err := protocol.DecodeResult(data)
	if err != nil {
		log.Warn().Err(err).Msg("caller: dropping unparseable frame")
		return
	}
	switch protocol.Classify(result.Type) {
	case protocol.KindResult, protocol.KindError:
	default:
		log.Debug().Str("type", result.Type).Msg("caller: ignoring non-result frame")
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[result.RequestID]
	if ok {
		delete(c.pending, result.RequestID)
	}
	c.mu.Unlock()
	if !ok {
		// Late or foreign answer; a resolved request is never resurrected.
		log.Debug().
			Str("type", result.Type).
			Str("request_id", result.RequestID).
			Msg("caller: unmatched answer dropped")
		return
	}
	ch <- response{result: result}
}

func (c *Client) handleDisconnect(ws *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn == ws {
		c.conn = nil
	}
	pending := c.pending
	c.pending = make(map[string]chan response)
	c.mu.Unlock()

	_ = ws.Close()
	if len(pending) > 0 || !websocket.IsCloseError(cause, websocket.CloseNormalClosure) {
		log.Warn().Err(cause).Int("pending", len(pending)).Msg("caller: connection lost")
	}
	for requestID, ch := range pending {
		ch <- response{err: fmt.Errorf("%w: request_id=%s: %v", ErrConnectionLost, requestID, cause)}
	}
}

func (c *Client) forget(requestID string) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}

// do sends one command and waits for its answer. Exactly one send attempt
// occurs; timeouts purge the pending entry so a late answer is ignored.
func (c *Client) do(ctx context.Context, requestID string, cmd command) (protocol.Result, error) {
	if err := cmd.Validate(); err != nil {
		return protocol.Result{}, err
	}

	c.mu.Lock()
	if err := c.ensureConnectedLocked(ctx); err != nil {
		c.mu.Unlock()
		return protocol.Result{}, err
	}
	ws := c.conn
	ch := make(chan response, 1)
	c.pending[requestID] = ch
	c.mu.Unlock()

	payload, err := json.Marshal(cmd)
	if err != nil {
		c.forget(requestID)
		return protocol.Result{}, err
	}
	c.writeMu.Lock()
	err = ws.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(requestID)
		return protocol.Result{}, fmt.Errorf("%w: %v", ErrConnectionLost, err)
	}

	timer := time.NewTimer(c.cfg.RequestTimeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		return resp.result, resp.err
	case <-timer.C:
		c.forget(requestID)
		return protocol.Result{}, fmt.Errorf("%w: request_id=%s", ErrRequestTimeout, requestID)
	case <-ctx.Done():
		c.forget(requestID)
		return protocol.Result{}, ctx.Err()
	}
}
