package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMessage marks an inbound payload that is not a well-formed
// envelope. It is never fatal to the connection: the message is logged and
// dropped, and no response is sent.
var ErrMalformedMessage = errors.New("malformed message")

// Envelope is the wire shape in both directions: a numeric code and a
// code-specific object payload.
type Envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

// JoinRoomRequest is the payload of a CodeJoinRoom message.
type JoinRoomRequest struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// PlayerLeft is the payload of a CodePlayerLeft broadcast.
type PlayerLeft struct {
	UserID string `json:"userId"`
}

// Request is a decoded inbound message. The payload is decoded per code;
// at most one of the typed payload fields is populated, matching Code.
type Request struct {
	Code int
	Join *JoinRoomRequest
}

// DecodeRequest parses a wire envelope into a typed request. A payload that
// is not JSON, has no code field, or carries a non-object data field fails
// with ErrMalformedMessage. Codes without a typed payload decode to a bare
// Request so the dispatcher can still branch on them.
func DecodeRequest(raw []byte) (*Request, error) {
	var env struct {
		Code *int            `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Code == nil {
		return nil, fmt.Errorf("%w: missing code", ErrMalformedMessage)
	}
	if len(env.Data) > 0 && !isJSONObject(env.Data) {
		return nil, fmt.Errorf("%w: data is not an object", ErrMalformedMessage)
	}

	req := &Request{Code: *env.Code}

	switch req.Code {
	case CodeJoinRoom:
		var join JoinRoomRequest
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &join); err != nil {
				return nil, fmt.Errorf("%w: join payload: %v", ErrMalformedMessage, err)
			}
		}
		req.Join = &join
	}

	return req, nil
}

// EncodeResponse builds an outbound envelope. Both fields are always
// present; a nil payload encodes as an empty object.
func EncodeResponse(code int, data any) ([]byte, error) {
	if data == nil {
		data = struct{}{}
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding response payload: %w", err)
	}

	return json.Marshal(Envelope{Code: code, Data: payload})
}

func isJSONObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
