package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSend(t *testing.T) {
	client := &Client{
		ID:       "test-client",
		ActorRef: "203.0.113.5",
		send:     make(chan []byte, 16),
	}

	err := client.Send(NewMessage(TypeStatusUpdate, map[string]int{"remaining": 2}))
	require.NoError(t, err)

	data := <-client.send

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypeStatusUpdate, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestClientSend_DropsWhenBufferFull(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 1),
	}

	require.NoError(t, client.Send(NewMessage(TypeStatusUpdate, nil)))

	// buffer is full; the send must not block
	require.NoError(t, client.Send(NewMessage(TypeStatusUpdate, nil)))

	assert.Len(t, client.send, 1)
}

func TestClientClose(t *testing.T) {
	client := &Client{
		ID:   "test-client",
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}

	assert.False(t, client.IsClosed())

	select {
	case <-client.Done():
		t.Fatal("done channel closed before Close")
	default:
	}

	client.Close()
	assert.True(t, client.IsClosed())

	// done unblocks waiters immediately
	select {
	case <-client.Done():
	default:
		t.Fatal("done channel still open after Close")
	}

	// close is idempotent
	client.Close()

	// sends after close are silently dropped
	require.NoError(t, client.Send(NewMessage(TypeStatusUpdate, nil)))

	_, open := <-client.send
	assert.False(t, open)
}
