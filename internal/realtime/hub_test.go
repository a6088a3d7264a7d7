package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdleClient(h *Hub, userID int32) *Client {
	// No Conn and no pumps: the hub never touches the connection itself,
	// so a bare client stands in for a session that stopped reading.
	return &Client{Hub: h, Send: make(chan []byte, 16), UserID: userID}
}

func registerAndWait(t *testing.T, h *Hub, c *Client) {
	t.Helper()
	h.Register <- c
	require.Eventually(t, func() bool { return h.IsUserOnline(c.UserID) }, time.Second, time.Millisecond)
}

func TestHub_DeliversToRegisteredClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := newIdleClient(h, 1)
	registerAndWait(t, h, client)

	h.SendToUser(1, []byte("hello"))

	select {
	case msg := <-client.Send:
		assert.Equal(t, []byte("hello"), msg)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestHub_FullBufferDropsClientFromBothRegistries(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := newIdleClient(h, 7)
	registerAndWait(t, h, client)

	for i := 0; i < cap(client.Send); i++ {
		h.SendToUser(7, []byte("backlog"))
	}
	assert.True(t, h.IsUserOnline(7))

	// Buffer is full now, so this send evicts the client.
	h.SendToUser(7, []byte("overflow"))
	assert.False(t, h.IsUserOnline(7))

	// The evicted client must be gone from the per-user registry too,
	// otherwise this send would hit its closed channel and panic.
	assert.NotPanics(t, func() {
		h.SendToUser(7, []byte("after eviction"))
	})

	// The read pump's unregister still races in after an eviction.
	assert.NotPanics(t, func() {
		h.removeClient(client)
	})
}

func TestHub_EvictionKeepsOtherConnectionsOfSameUser(t *testing.T) {
	h := NewHub()
	go h.Run()

	stalled := newIdleClient(h, 3)
	healthy := newIdleClient(h, 3)
	registerAndWait(t, h, stalled)
	h.Register <- healthy
	require.Eventually(t, func() bool {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		return len(h.userClients[3]) == 2
	}, time.Second, time.Millisecond)

	for i := 0; i < cap(stalled.Send); i++ {
		h.SendToUser(3, []byte("backlog"))
		<-healthy.Send
	}

	h.SendToUser(3, []byte("last"))
	assert.True(t, h.IsUserOnline(3))
	assert.Equal(t, []byte("last"), <-healthy.Send)

	_, open := <-stalled.Send
	for open {
		_, open = <-stalled.Send
	}
}

func TestHub_UnregisterRemovesUser(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := newIdleClient(h, 5)
	registerAndWait(t, h, client)

	h.Unregister <- client
	require.Eventually(t, func() bool { return !h.IsUserOnline(5) }, time.Second, time.Millisecond)

	// Sends to a fully departed user are a no-op.
	assert.NotPanics(t, func() {
		h.SendToUser(5, []byte("gone"))
	})
}
