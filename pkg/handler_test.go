package pkg

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Server:  ServerConfig{Addr: ":0", MetricsAddr: ":0"},
		Socket:  SocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024, SendBuffer: 16},
		Room:    RoomConfig{Capacity: 3},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func startTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	server := NewServer(testConfig())
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/health", server.HealthHandler)
	router.HandleFunc("/game/{userId}", server.SocketHandler)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return server, ts
}

func dialGame(t *testing.T, ts *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/game/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJoin(t *testing.T, conn *websocket.Conn, userID, userName string) {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"code": CodeJoinRoom,
		"data": map[string]string{"userId": userID, "userName": userName},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func readRoomInfoEnvelope(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()

	env := readEnvelope(t, conn)
	require.Equal(t, CodeRoomInfo, env.Code)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	return snap
}

func TestSocketHandler_ThreeJoinersFillARoom(t *testing.T) {
	server, ts := startTestServer(t)

	connA := dialGame(t, ts, "a")
	connB := dialGame(t, ts, "b")
	connC := dialGame(t, ts, "c")

	sendJoin(t, connA, "a", "Anna")
	snapA := readRoomInfoEnvelope(t, connA)
	assert.Equal(t, 1, snapA.Seat)
	require.Len(t, snapA.Players, 1)

	sendJoin(t, connB, "b", "Ben")
	snapB := readRoomInfoEnvelope(t, connB)
	assert.Equal(t, 2, snapB.Seat)
	assert.Equal(t, snapA.RoomID, snapB.RoomID)
	require.Len(t, snapB.Players, 2)

	sendJoin(t, connC, "c", "Cleo")
	snapC := readRoomInfoEnvelope(t, connC)
	assert.Equal(t, 3, snapC.Seat)
	assert.Equal(t, snapA.RoomID, snapC.RoomID)
	require.Len(t, snapC.Players, 3)

	sealed, ok := server.rooms.SealedRoom(snapA.RoomID)
	require.True(t, ok)
	assert.Len(t, sealed.Players, 3)

	connD := dialGame(t, ts, "d")
	sendJoin(t, connD, "d", "Dee")
	snapD := readRoomInfoEnvelope(t, connD)
	assert.NotEqual(t, snapA.RoomID, snapD.RoomID)
	assert.Equal(t, 1, snapD.Seat)
}

func TestSocketHandler_DepartureBroadcast(t *testing.T) {
	_, ts := startTestServer(t)

	stayer := dialGame(t, ts, "stayer")
	leaver := dialGame(t, ts, "leaver")

	// Joining proves both sessions are registered before the disconnect.
	sendJoin(t, stayer, "stayer", "Sam")
	readRoomInfoEnvelope(t, stayer)
	sendJoin(t, leaver, "leaver", "Lea")
	readRoomInfoEnvelope(t, leaver)

	require.NoError(t, leaver.Close())

	env := readEnvelope(t, stayer)
	require.Equal(t, CodePlayerLeft, env.Code)

	var left PlayerLeft
	require.NoError(t, json.Unmarshal(env.Data, &left))
	assert.Equal(t, "leaver", left.UserID)
}

func TestSocketHandler_SilentDisconnectDoesNotBreakBroadcast(t *testing.T) {
	server, ts := startTestServer(t)

	connA := dialGame(t, ts, "a")
	connB := dialGame(t, ts, "b")

	// Joining proves A and B are registered before E disconnects.
	sendJoin(t, connA, "a", "Anna")
	readRoomInfoEnvelope(t, connA)
	sendJoin(t, connB, "b", "Ben")
	readRoomInfoEnvelope(t, connB)

	// E connects, never sends anything, and drops.
	connE := dialGame(t, ts, "e")
	require.NoError(t, connE.Close())

	// A and B still receive the departure notice.
	for _, conn := range []*websocket.Conn{connA, connB} {
		env := readEnvelope(t, conn)
		require.Equal(t, CodePlayerLeft, env.Code)
	}

	require.Eventually(t, func() bool {
		return server.registry.Len() == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSocketHandler_MalformedMessageKeepsConnectionOpen(t *testing.T) {
	_, ts := startTestServer(t)

	conn := dialGame(t, ts, "a")
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives: a join afterwards still succeeds.
	sendJoin(t, conn, "a", "Anna")
	snap := readRoomInfoEnvelope(t, conn)
	assert.Equal(t, 1, snap.Seat)
}
