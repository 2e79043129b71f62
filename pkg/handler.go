package pkg

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Server wires the websocket endpoint to the session registry, the room
// manager, and the dispatcher.
type Server struct {
	config     *Config
	registry   *Registry
	rooms      *RoomManager
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
}

func NewServer(config *Config) *Server {
	registry := NewRegistry()
	rooms := NewRoomManager(config.Room.Capacity)

	return &Server{
		config:     config,
		registry:   registry,
		rooms:      rooms,
		dispatcher: NewDispatcher(rooms, registry),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.Socket.ReadBufferSize,
			WriteBufferSize: config.Socket.WriteBufferSize,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
}

// SocketHandler upgrades the connection, registers a session for it, and
// runs the read/write pumps until the transport closes. The user identifier
// comes from the request path and is not authenticated.
func (s *Server) SocketHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")

	userID := mux.Vars(r)["userId"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade connection: ", err)
		return
	}

	defer conn.Close()

	session := NewSession(userID, conn, s.config.Socket.SendBuffer)
	s.registry.Register(session)

	logFields := log.Fields{
		"session": session.ID,
		"user":    userID,
	}

	log.WithFields(logFields).Info("New session")

	go session.readPump(s.dispatcher)

	session.writePump()

	// Unregister before the departure broadcast so the departing session
	// never receives its own notice.
	s.registry.Unregister(session.ID)
	session.Close()

	raw, err := EncodeResponse(CodePlayerLeft, PlayerLeft{UserID: userID})
	if err != nil {
		log.WithFields(logFields).Error("Failed to encode departure notice: ", err)
	} else {
		s.registry.Broadcast(raw)
	}

	log.WithFields(logFields).Info("Closed session")
}
