package pkg

import "github.com/google/uuid"

// DefaultRoomCapacity is the seat count of a standard landlord table.
const DefaultRoomCapacity = 3

// Room is a fixed-capacity container of seated players. It carries no lock
// of its own: the RoomManager serializes all access to rooms it owns.
type Room struct {
	id       string
	capacity int
	seats    int // monotonically increasing seat counter
	players  []Player
	sealed   bool
}

func newRoom(capacity int) *Room {
	return &Room{
		id:       uuid.New().String(),
		capacity: capacity,
		players:  make([]Player, 0, capacity),
	}
}

// nextSeat claims the next seat index, starting at 1. Returns 0 when every
// seat has already been claimed.
func (r *Room) nextSeat() int {
	if r.seats >= r.capacity {
		return 0
	}
	r.seats++
	return r.seats
}

func (r *Room) full() bool {
	return len(r.players) >= r.capacity
}

// Snapshot is an immutable view of a room at a point in time. Seat is the
// viewing player's own seat; it is zero for views not tied to a join.
type Snapshot struct {
	RoomID  string   `json:"roomId"`
	Seat    int      `json:"seat"`
	Players []Player `json:"players"`
}

func (r *Room) snapshot(seat int) Snapshot {
	players := make([]Player, len(r.players))
	copy(players, r.players)
	return Snapshot{
		RoomID:  r.id,
		Seat:    seat,
		Players: players,
	}
}
