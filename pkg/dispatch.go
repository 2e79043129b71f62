package pkg

import (
	"errors"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidJoinRequest marks a join payload missing userId or userName.
// Logged and dropped without mutating any room state; the client receives
// no feedback.
var ErrInvalidJoinRequest = errors.New("invalid join request")

// Disposition reports what the dispatcher did with a message, so that
// unimplemented and ignored branches stay visible to callers and tests
// instead of vanishing into empty switch cases.
type Disposition int

const (
	// DispositionHandled means the request was processed.
	DispositionHandled Disposition = iota
	// DispositionNotImplemented marks a recognized code whose game logic
	// does not exist yet.
	DispositionNotImplemented
	// DispositionIgnored marks an unrecognized code, accepted and dropped.
	DispositionIgnored
	// DispositionRejected marks a malformed or invalid message, logged and
	// dropped with no response.
	DispositionRejected
)

// Dispatcher routes decoded requests by code. It owns no state of its own:
// seat assignment lives in the RoomManager and delivery in the Registry.
type Dispatcher struct {
	rooms    *RoomManager
	registry *Registry
}

func NewDispatcher(rooms *RoomManager, registry *Registry) *Dispatcher {
	return &Dispatcher{
		rooms:    rooms,
		registry: registry,
	}
}

// Dispatch decodes raw and routes it. No outcome is fatal to the
// connection, and no failure here may affect any other session.
func (d *Dispatcher) Dispatch(s *Session, raw []byte) Disposition {
	req, err := DecodeRequest(raw)
	if err != nil {
		log.WithFields(log.Fields{
			"session": s.ID,
			"user":    s.UserID,
		}).Error("Failed to decode message: ", err)
		return DispositionRejected
	}

	return d.Route(s, req)
}

// Route branches on the request code. Unknown codes are silently accepted
// and dropped so newer clients keep working against this server.
func (d *Dispatcher) Route(s *Session, req *Request) Disposition {
	switch req.Code {
	case CodeJoinRoom:
		if err := d.handleJoinRoom(s, req.Join); err != nil {
			log.WithFields(log.Fields{
				"session": s.ID,
				"user":    s.UserID,
			}).Error("Failed to join room: ", err)
			return DispositionRejected
		}
		return DispositionHandled

	case CodeBeReady, CodeCallLandlord:
		// Ready toggling and bidding belong to the game rules, which are
		// not implemented yet.
		return DispositionNotImplemented

	default:
		return DispositionIgnored
	}
}

func (d *Dispatcher) handleJoinRoom(s *Session, join *JoinRoomRequest) error {
	if join == nil || join.UserID == "" || join.UserName == "" {
		return ErrInvalidJoinRequest
	}

	snap, err := d.rooms.JoinOpenRoom(Player{
		UserID:   join.UserID,
		UserName: join.UserName,
	})
	if err != nil {
		return err
	}

	// JoinOpenRoom released the room lock before this point; delivery never
	// happens under it.
	raw, err := EncodeResponse(CodeRoomInfo, snap)
	if err != nil {
		return err
	}
	return d.registry.Send(s.ID, raw)
}
