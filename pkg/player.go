package pkg

// Player is a seated room occupant. UserID and UserName come straight from
// the client and are not validated against any account system.
type Player struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	RoomID   string `json:"roomId"`
	Seat     int    `json:"seat"`
}
