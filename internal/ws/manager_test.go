package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
)

func dialPair(t *testing.T) (*websocket.Conn, *websocket.Conn, func()) {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	var serverConn *websocket.Conn
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		serverConn, err = upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
	}))

	wsURL := "ws" + srv.URL[len("http"):]
	clientConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	cleanup := func() {
		clientConn.Close()
		if serverConn != nil {
			serverConn.Close()
		}
		srv.Close()
	}
	return serverConn, clientConn, cleanup
}

func TestManagerRegisterGetIsOnline(t *testing.T) {
	server, _, cleanup := dialPair(t)
	defer cleanup()

	m := NewManager()
	if m.IsOnline("alice") {
		t.Fatal("expected alice offline before registration")
	}

	m.Register("alice", server)
	if !m.IsOnline("alice") {
		t.Fatal("expected alice online after registration")
	}

	conn, ok := m.Get("alice")
	if !ok || conn == nil {
		t.Fatal("expected Get to return the registered connection")
	}
}

func TestManagerRegisterReplacesLastWriterWins(t *testing.T) {
	server1, _, cleanup1 := dialPair(t)
	defer cleanup1()
	server2, _, cleanup2 := dialPair(t)
	defer cleanup2()

	m := NewManager()
	m.Register("alice", server1)
	second := m.Register("alice", server2)

	conn, ok := m.Get("alice")
	if !ok || conn != second {
		t.Fatal("expected second registration to win")
	}
}

func TestManagerUnregisterIdempotent(t *testing.T) {
	m := NewManager()
	m.Unregister("ghost")
	m.Unregister("ghost")
	if m.IsOnline("ghost") {
		t.Fatal("unregister of unknown user must be a safe no-op")
	}
}

func TestManagerUnregisterConnDoesNotEvictNewerRegistration(t *testing.T) {
	server1, _, cleanup1 := dialPair(t)
	defer cleanup1()
	server2, _, cleanup2 := dialPair(t)
	defer cleanup2()

	m := NewManager()
	first := m.Register("alice", server1)
	m.Register("alice", server2)

	m.UnregisterConn("alice", first)

	if !m.IsOnline("alice") {
		t.Fatal("stale unregister must not evict the newer connection")
	}
}

func TestManagerSendPersonalUnregistersOnFailure(t *testing.T) {
	server, client, cleanup := dialPair(t)
	defer cleanup()

	m := NewManager()
	m.Register("alice", server)
	client.Close()
	server.Close()

	if m.SendPersonal("alice", map[string]string{"type": "pong"}) {
		t.Fatal("expected send on a closed connection to fail")
	}
	if m.IsOnline("alice") {
		t.Fatal("expected failed send to unregister the user")
	}
}

func TestManagerSendPersonalUnknownUser(t *testing.T) {
	m := NewManager()
	if m.SendPersonal("nobody", "payload") {
		t.Fatal("expected send to an unregistered user to return false")
	}
}
