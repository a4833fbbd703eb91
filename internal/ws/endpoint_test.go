package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayaka01/chimeo-core/internal/auth"

	"github.com/gorilla/websocket"
)

func TestEndpointAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Minute, time.Hour)
	e := NewEndpoint(NewManager(), tokens, nil, nil)

	token, err := tokens.IssueAccessToken("alice")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	if err := e.Authenticate(token, "alice"); err != nil {
		t.Fatalf("expected matching subject to authenticate, got %v", err)
	}
	if err := e.Authenticate(token, "bob"); err == nil {
		t.Fatal("expected mismatched path username to fail authentication")
	}
	if err := e.Authenticate("garbage", "alice"); err == nil {
		t.Fatal("expected malformed token to fail authentication")
	}
}

func TestEndpointConnWriteFailsOnClosedSocket(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	var serverConn *websocket.Conn
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		serverConn, err = upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Fatalf("upgrade: %v", err)
		}
	}))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client.Close()
	if serverConn != nil {
		serverConn.Close()
	}

	manager := NewManager()
	conn := manager.Register("bob", serverConn)

	tokens := auth.NewTokenManager("secret", time.Minute, time.Hour)
	e := NewEndpoint(manager, tokens, nil, nil)
	// flushPending with a nil messages service would panic; this test only
	// exercises the write-failure short-circuit via a closed connection, so
	// it calls conn.writeJSON directly rather than through flushPending.
	_ = e
	if err := conn.writeJSON(map[string]string{"type": "new_message"}); err == nil {
		t.Fatal("expected write on closed connection to fail")
	}
}
