package pkg

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrSessionClosed means the outbound queue was already closed.
	ErrSessionClosed = errors.New("session closed")
	// ErrSendBufferFull means the outbound queue is saturated.
	ErrSendBufferFull = errors.New("send buffer full")
)

// Session is one live client connection: a connection-scoped identifier,
// the client-supplied user identifier from the connect path, the websocket,
// and a buffered outbound queue drained by the write pump.
type Session struct {
	ID     string
	UserID string

	conn *websocket.Conn

	lock   sync.Mutex
	closed bool
	send   chan []byte
}

func NewSession(userID string, conn *websocket.Conn, buffer int) *Session {
	return &Session{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, buffer),
	}
}

// Push queues message for delivery without blocking. A saturated buffer is
// a failed send rather than a stall, so a slow client cannot hold up a
// broadcast or the room lock.
func (s *Session) Push(message []byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	select {
	case s.send <- message:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops the write pump by closing the outbound queue. Idempotent.
func (s *Session) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// Outbound exposes the queued messages. Used by the write pump and tests.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// readPump reads messages until the transport fails, handing each one to
// the dispatcher. Decode and handler failures are logged inside Dispatch
// and never end the loop; only transport errors do.
func (s *Session) readPump(d *Dispatcher) {
	defer s.Close()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {
				log.WithFields(log.Fields{
					"session": s.ID,
					"user":    s.UserID,
				}).Error("Failed to read message: ", err)
			}
			return
		}

		d.Dispatch(s, raw)
	}
}

// writePump writes queued messages to the connection until the queue is
// closed or a write fails.
func (s *Session) writePump() {
	for message := range s.send {
		err := s.conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.WithFields(log.Fields{
				"session": s.ID,
				"user":    s.UserID,
			}).Error("Failed to write message: ", err)
			return
		}
	}
}
