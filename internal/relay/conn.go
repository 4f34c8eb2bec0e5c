package relay

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is one registered socket with its role tag. Writes are serialized
// because gorilla connections support a single concurrent writer.
type Conn struct {
	id   string
	ws   *websocket.Conn
	role string

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newConn(id string, ws *websocket.Conn) *Conn {
	return &Conn{id: id, ws: ws}
}

func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) Role() string {
	return c.role
}

func (c *Conn) setRole(role string) {
	c.role = role
}

func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// WriteFrame sends one complete frame as a text message.
func (c *Conn) WriteFrame(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the socket. Closing twice is a no-op.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
