package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(userID string) *Session {
	return NewSession(userID, nil, 4)
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := NewRegistry()
	s := newTestSession("u1")

	r.Register(s)
	assert.Equal(t, 1, r.Len())

	// re-registering the same id overwrites silently
	r.Register(s)
	assert.Equal(t, 1, r.Len())

	r.Unregister(s.ID)
	assert.Equal(t, 0, r.Len())

	// unregistering an absent id is a no-op
	r.Unregister(s.ID)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_SendUnknownSession(t *testing.T) {
	r := NewRegistry()
	err := r.Send("nope", []byte("hello"))
	assert.Error(t, err)
}

func TestRegistry_Send(t *testing.T) {
	r := NewRegistry()
	s := newTestSession("u1")
	r.Register(s)

	require.NoError(t, r.Send(s.ID, []byte("hello")))
	assert.Equal(t, []byte("hello"), <-s.Outbound())
}

func TestRegistry_SendFailureLeavesSessionRegistered(t *testing.T) {
	r := NewRegistry()
	s := newTestSession("u1")
	r.Register(s)
	s.Close()

	err := r.Send(s.ID, []byte("hello"))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Broadcast(t *testing.T) {
	r := NewRegistry()
	sessions := []*Session{newTestSession("a"), newTestSession("b"), newTestSession("c")}
	for _, s := range sessions {
		r.Register(s)
	}

	r.Broadcast([]byte("all"))

	for _, s := range sessions {
		assert.Equal(t, []byte("all"), <-s.Outbound())
	}
}

func TestRegistry_BroadcastSkipsFailedRecipient(t *testing.T) {
	r := NewRegistry()
	closed := newTestSession("dead")
	alive1 := newTestSession("a")
	alive2 := newTestSession("b")
	for _, s := range []*Session{closed, alive1, alive2} {
		r.Register(s)
	}
	closed.Close()

	r.Broadcast([]byte("still here"))

	assert.Equal(t, []byte("still here"), <-alive1.Outbound())
	assert.Equal(t, []byte("still here"), <-alive2.Outbound())
}

func TestSession_PushFullBuffer(t *testing.T) {
	s := NewSession("u1", nil, 1)
	require.NoError(t, s.Push([]byte("first")))

	err := s.Push([]byte("overflow"))
	assert.ErrorIs(t, err, ErrSendBufferFull)

	// the queued message is untouched
	assert.Equal(t, []byte("first"), <-s.Outbound())
}

func TestSession_CloseIdempotent(t *testing.T) {
	s := newTestSession("u1")
	s.Close()
	s.Close()

	assert.ErrorIs(t, s.Push([]byte("late")), ErrSessionClosed)
}
