package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"signal-radar/internal/domain/message"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, userID uuid.UUID) *Client {
	return NewClient(h, nil, nil, userID, "tester", nil)
}

func isClosed(c *Client) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestHub_RegisterReplacesPreviousSession(t *testing.T) {
	h := NewHub(nil)
	uid := uuid.New()

	first := newTestClient(h, uid)
	second := newTestClient(h, uid)

	h.Register(first)
	assert.True(t, h.IsOnline(uid))
	h.Register(second)

	assert.True(t, isClosed(first))
	assert.False(t, isClosed(second))
	assert.Equal(t, 1, h.ClientCount())

	// the replaced connection's read loop exiting must not evict its successor
	assert.False(t, h.Release(first))
	assert.True(t, h.IsOnline(uid))

	assert.True(t, h.Release(second))
	assert.False(t, h.IsOnline(uid))
}

func TestHub_SendTo(t *testing.T) {
	h := NewHub(nil)
	uid := uuid.New()
	c := newTestClient(h, uid)
	h.Register(c)

	ok := h.SendJSON(uid, message.PongEvent{Type: message.TypePong})
	require.True(t, ok)

	got := <-c.send
	var ev message.PongEvent
	require.NoError(t, json.Unmarshal(got, &ev))
	assert.Equal(t, message.TypePong, ev.Type)

	assert.False(t, h.SendTo(uuid.New(), []byte("x")), "offline user")
}

func TestHub_FullBufferDisconnects(t *testing.T) {
	h := NewHub(nil)
	uid := uuid.New()
	c := newTestClient(h, uid)
	h.Register(c)

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, h.SendTo(uid, []byte("m")))
	}
	assert.False(t, h.SendTo(uid, []byte("overflow")))
	assert.False(t, h.IsOnline(uid))
	assert.True(t, isClosed(c))
}

func TestHub_UnregisterAndClose(t *testing.T) {
	h := NewHub(nil)
	a, b := uuid.New(), uuid.New()
	ca, cb := newTestClient(h, a), newTestClient(h, b)
	h.Register(ca)
	h.Register(cb)

	assert.ElementsMatch(t, []uuid.UUID{a, b}, h.OnlineUsers())

	h.Unregister(a)
	assert.True(t, isClosed(ca))
	assert.False(t, h.IsOnline(a))
	assert.False(t, h.SendTo(a, []byte("x")))

	h.Close()
	assert.True(t, isClosed(cb))
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_ConcurrentAccess(t *testing.T) {
	h := NewHub(nil)
	users := make([]uuid.UUID, 20)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, uid := range users {
		wg.Add(1)
		go func(uid uuid.UUID) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c := newTestClient(h, uid)
				h.Register(c)
				h.SendTo(uid, []byte("hi"))
				h.IsOnline(uid)
				h.Release(c)
			}
		}(uid)
	}
	wg.Wait()
	assert.Equal(t, 0, h.ClientCount())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c := newTestClient(NewHub(nil), uuid.New())
	c.Close()
	c.Close()
	assert.False(t, c.trySend([]byte("x")))
}
