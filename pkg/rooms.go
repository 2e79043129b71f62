package pkg

import (
	"errors"
	"sync"
)

var (
	// ErrRoomFull means every seat in the target room was already claimed.
	ErrRoomFull = errors.New("room full")
	// ErrRoomSealed means the target room stopped accepting joins.
	ErrRoomSealed = errors.New("room already sealed")
)

// RoomManager owns the single currently-filling room and the map of sealed
// rooms. One mutex covers the entire check-create-append-seal sequence:
// the observation that a seat is available and the mutation that claims it
// must be atomic across all joining players, or two joiners could both see
// the last seat. The critical section does no I/O; callers deliver the
// returned snapshot after the lock is released.
type RoomManager struct {
	lock     sync.Mutex
	capacity int
	open     *Room
	sealed   map[string]*Room
}

func NewRoomManager(capacity int) *RoomManager {
	if capacity <= 0 {
		capacity = DefaultRoomCapacity
	}
	return &RoomManager{
		capacity: capacity,
		sealed:   make(map[string]*Room),
	}
}

// JoinOpenRoom seats player in the open room, creating a fresh one if none
// is open and sealing the room once its last seat is claimed. Seats are
// handed out in join order starting at 1 and are never revoked: a seated
// player that disconnects before the room fills leaves its seat permanently
// occupied.
func (m *RoomManager) JoinOpenRoom(player Player) (Snapshot, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.open == nil {
		m.open = newRoom(m.capacity)
	}
	room := m.open

	if room.sealed {
		// Unreachable while rotation nils the open pointer on seal; kept
		// as a guard against a future caller holding a stale room.
		return Snapshot{}, ErrRoomSealed
	}

	seat := room.nextSeat()
	if seat <= 0 {
		return Snapshot{}, ErrRoomFull
	}

	player.RoomID = room.id
	player.Seat = seat
	room.players = append(room.players, player)

	snap := room.snapshot(seat)

	if room.full() {
		room.sealed = true
		m.sealed[room.id] = room
		m.open = nil
		roomsSealedCounter.Inc()
	}

	playersSeatedCounter.Inc()
	return snap, nil
}

// SealedRoom returns a snapshot of a sealed room by identifier.
func (m *RoomManager) SealedRoom(id string) (Snapshot, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()

	room, ok := m.sealed[id]
	if !ok {
		return Snapshot{}, false
	}
	return room.snapshot(0), true
}

// OpenSeats reports how many seats the current open room has filled, and
// zero when no room is open.
func (m *RoomManager) OpenSeats() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.open == nil {
		return 0
	}
	return len(m.open.players)
}
