package websocket

import "time"

// message type constants for websocket communication
const (
	// is sent to the client with its current allowance
	TypeStatusUpdate = "status_update"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"

	// is sent when an error occurs
	TypeError = "error"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer; the feed only receives pings
	maxMessageSize = 4 * 1024 // 4 KB
)

// Message is the envelope for everything sent over the feed
type Message struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// creates a message with the timestamp filled in
func NewMessage(msgType string, payload any) *Message {
	return &Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
