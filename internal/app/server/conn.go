package server

import (
	"sync"

	"github.com/codeduel-io/codeduel/pkg/utils"
	"github.com/gorilla/websocket"
)

// conn wraps a websocket connection with an identity and a write lock so
// the match goroutine and the gateway never interleave frames.
type conn struct {
	id string
	ws *websocket.Conn
	mu sync.Mutex
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{
		id: utils.GenerateUUID(),
		ws: ws,
	}
}

func (c *conn) writeEvent(eventType string, data any) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws == nil {
		return nil
	}
	return c.ws.WriteJSON(event{
		Type: eventType,
		Data: data,
	})
}

func (c *conn) close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ws != nil {
		c.ws.Close()
	}
}
