// Package ws implements the connection manager and realtime endpoint: a
// single username -> connection map with no group-conversation concept.
package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn is the live realtime channel handle registered per username.
type Conn struct {
	Socket *websocket.Conn
	mu     sync.Mutex
}

func (c *Conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Socket.WriteJSON(v)
}

// Manager is the process-local, single-process registry mapping connected
// usernames to their live realtime channels. It is an intentional
// process-singleton protected by a mutex; there is no other hidden global
// state.
type Manager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewManager() *Manager {
	return &Manager{conns: make(map[string]*Conn)}
}

// Register inserts the binding, replacing any prior one. The displaced
// connection becomes orphaned; it is the owning read loop's job to close it
// on its next failed send (last-writer-wins).
func (m *Manager) Register(username string, socket *websocket.Conn) *Conn {
	conn := &Conn{Socket: socket}
	m.mu.Lock()
	m.conns[username] = conn
	m.mu.Unlock()
	return conn
}

// Unregister removes the binding if present. Idempotent.
func (m *Manager) Unregister(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, username)
}

// UnregisterConn removes the binding for username only if it still points at
// conn, so a displaced (orphaned) connection's own teardown never evicts the
// connection that replaced it.
func (m *Manager) UnregisterConn(username string, conn *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.conns[username]; ok && current == conn {
		delete(m.conns, username)
	}
}

func (m *Manager) Get(username string) (*Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[username]
	return conn, ok
}

func (m *Manager) IsOnline(username string) bool {
	_, ok := m.Get(username)
	return ok
}

// SendPersonal looks up the binding for username; if present, serializes and
// transmits payload. On I/O failure it unregisters the binding and returns
// false; the lookup does not hold the map lock across the network write.
func (m *Manager) SendPersonal(username string, payload any) bool {
	conn, ok := m.Get(username)
	if !ok {
		return false
	}
	if err := conn.writeJSON(payload); err != nil {
		m.UnregisterConn(username, conn)
		return false
	}
	return true
}
