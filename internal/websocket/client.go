package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"codeberg.org/pixelforge/server/internal/logger"
)

// Client is one subscriber on the status feed. the feed is push-only:
// the read pump exists to service control frames and client pings, every
// application payload flows server to client.
type Client struct {
	ID       string
	ActorRef string

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// creates a new status feed client
func NewClient(id, actorRef string, conn *websocket.Conn) *Client {
	return &Client{
		ID:       id,
		ActorRef: actorRef,
		conn:     conn,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// reads control frames and client pings until the connection drops.
// onClose runs exactly once when the pump exits.
func (c *Client) ReadPump(onClose func()) {
	defer func() {
		c.Close()
		onClose()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			break
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			continue
		}

		if msg.Type == TypePing {
			c.Send(NewMessage(TypePong, nil)) //nolint:errcheck,gosec // best-effort
		}
	}
}

// writes queued messages and keepalive pings to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queues a message for delivery; drops it if the client is closed or slow
func (c *Client) Send(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
	default:
		// slow consumer; the next tick delivers a fresh status anyway
	}

	return nil
}

// closes the send channel so the write pump tears down the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
	close(c.done)
}

// closed when the client shuts down; lets feed goroutines exit promptly
// instead of waiting for their next tick
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// reports whether the client has been closed
func (c *Client) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}
