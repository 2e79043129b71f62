package pkg

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Registry tracks every live session, keyed by session identifier. All
// methods are safe for concurrent use from any number of handler
// goroutines. No ordering is guaranteed between Register/Unregister and a
// concurrently in-flight Broadcast; a session racing its own disconnect may
// or may not receive the broadcast, and a failed send is simply dropped.
type Registry struct {
	lock     sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register inserts the session. Re-registering an identifier silently
// overwrites; identifiers are connection-scoped, so this should not happen
// in practice.
func (r *Registry) Register(s *Session) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.sessions[s.ID]; !ok {
		GameServerSessionsGauge.Inc()
	}
	r.sessions[s.ID] = s
}

// Unregister removes the session. No-op if the identifier is absent.
func (r *Registry) Unregister(id string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return
	}
	delete(r.sessions, id)
	GameServerSessionsGauge.Dec()
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.sessions)
}

// Send delivers message to one session. A failed send is logged and
// counted; the session stays registered, since eviction belongs to the
// connection's own pumps.
func (r *Registry) Send(id string, message []byte) error {
	r.lock.RLock()
	s, ok := r.sessions[id]
	r.lock.RUnlock()

	if !ok {
		return fmt.Errorf("session %s not registered", id)
	}

	if err := s.Push(message); err != nil {
		droppedSendsCounter.Inc()
		log.WithFields(log.Fields{
			"session": id,
			"user":    s.UserID,
		}).Error("Failed to send message: ", err)
		return err
	}

	return nil
}

// Broadcast delivers message to every registered session. Failures are
// per-recipient: a closed or saturated session is logged and skipped, never
// suppressing delivery to the rest.
func (r *Registry) Broadcast(message []byte) {
	r.lock.RLock()
	targets := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		targets = append(targets, s)
	}
	r.lock.RUnlock()

	for _, s := range targets {
		if err := s.Push(message); err != nil {
			droppedSendsCounter.Inc()
			log.WithFields(log.Fields{
				"session": s.ID,
				"user":    s.UserID,
			}).Error("Failed to broadcast message: ", err)
		}
	}
}
