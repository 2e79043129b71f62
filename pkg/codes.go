package pkg

// Message codes for the {code, data} wire envelope. The exact values are a
// contract with the client; do not renumber.
const (
	// Client -> Server requests
	CodeJoinRoom     = 1
	CodeBeReady      = 2
	CodeCallLandlord = 3

	// Server -> Client responses
	CodeRoomInfo   = 101
	CodePlayerLeft = 102
)
