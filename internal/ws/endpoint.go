package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayaka01/chimeo-core/internal/auth"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/repository"
	"github.com/ayaka01/chimeo-core/internal/service"

	"github.com/gorilla/websocket"
)

// Upgrader holds the default websocket upgrade settings.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Endpoint drives the per-connection lifecycle: handshake, register, flush
// pending, event loop, unregister on termination.
type Endpoint struct {
	manager  *Manager
	tokens   *auth.TokenManager
	messages service.MessageService
	lastSeen repository.LastSeenCache
}

func NewEndpoint(manager *Manager, tokens *auth.TokenManager, messages service.MessageService, lastSeen repository.LastSeenCache) *Endpoint {
	return &Endpoint{manager: manager, tokens: tokens, messages: messages, lastSeen: lastSeen}
}

// ErrPolicyViolation is returned by Authenticate when the token's embedded
// subject does not match the path-supplied username; a decoding failure
// returns ParseToken's own error instead. On either error the caller closes
// the socket with WS close code 1008 (policy violation).
var ErrPolicyViolation = auth.ErrTokenMalformed

// Authenticate decodes token and verifies its subject matches pathUsername.
func (e *Endpoint) Authenticate(token, pathUsername string) error {
	sub, err := e.tokens.ParseToken(token)
	if err != nil {
		return err
	}
	if sub != pathUsername {
		return ErrPolicyViolation
	}
	return nil
}

// Serve upgrades the HTTP request and runs the connection to completion.
// Callers must invoke Authenticate first; a mismatch or decode failure
// should close the connection before Serve is ever called.
func (e *Endpoint) Serve(w http.ResponseWriter, r *http.Request, username string) {
	socket, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "username", username, "error", err)
		return
	}

	conn := e.manager.Register(username, socket)
	defer func() {
		e.manager.UnregisterConn(username, conn)
		socket.Close()
		if e.lastSeen != nil {
			e.lastSeen.Touch(context.Background(), username, time.Now().UTC())
		}
	}()

	e.flushPending(conn, username)
	e.readLoop(socket, conn, username)
}

// flushPending transmits every PendingMessage addressed to username in FIFO
// order, invoking MarkDelivered (implicit ack) on each successful
// transmission. If any transmission fails, flushing stops; the remaining
// rows stay pending and are retried on the next connection.
func (e *Endpoint) flushPending(conn *Conn, username string) {
	ctx := context.Background()
	pending, err := e.messages.ListPending(ctx, username)
	if err != nil {
		slog.Error("failed to list pending messages", "username", username, "error", err)
		return
	}

	for _, msg := range pending {
		frame := models.Frame{
			Type: "new_message",
			Data: models.NewMessageData{
				ID:                msg.ID,
				SenderUsername:    msg.SenderUsername,
				RecipientUsername: msg.RecipientUsername,
				Text:              msg.Text,
				CreatedAt:         msg.CreatedAt.UTC().Format(time.RFC3339),
			},
		}
		if err := conn.writeJSON(frame); err != nil {
			slog.Warn("flush interrupted, remaining messages stay pending", "username", username, "error", err)
			return
		}
		if _, err := e.messages.MarkDelivered(ctx, msg.ID); err != nil {
			slog.Error("failed to mark flushed message delivered", "message_id", msg.ID, "error", err)
			return
		}
	}
}

// readLoop handles ping/pong, message_delivered ack with sender
// notification, and the typing_indicator relay. Unrecognized frame types
// are ignored for forward compatibility; malformed JSON logs a warning and
// the loop continues.
func (e *Endpoint) readLoop(socket *websocket.Conn, conn *Conn, username string) {
	ctx := context.Background()
	for {
		_, raw, err := socket.ReadMessage()
		if err != nil {
			return
		}

		var frame models.Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			slog.Warn("malformed inbound frame", "username", username, "error", err)
			continue
		}

		switch frame.Type {
		case "ping":
			conn.writeJSON(models.Frame{Type: "pong"})

		case "message_delivered":
			e.handleAck(ctx, frame, username)

		case "typing_indicator":
			e.relayTyping(frame, username)

		default:
			// forward-compatible: unknown frame types are ignored
		}
	}
}

func (e *Endpoint) handleAck(ctx context.Context, frame models.Frame, username string) {
	var data models.MessageDeliveredData
	if !decodeInto(frame.Data, &data) {
		return
	}

	msg, err := e.messages.Ack(ctx, data.MessageID, username)
	if err != nil {
		return
	}
	if msg.SenderUsername == username {
		return
	}
	e.manager.SendPersonal(msg.SenderUsername, models.Frame{
		Type: "message_delivered",
		Data: models.MessageDeliveredData{MessageID: msg.ID},
	})
}

func (e *Endpoint) relayTyping(frame models.Frame, from string) {
	var data models.TypingIndicatorData
	if !decodeInto(frame.Data, &data) {
		return
	}
	e.manager.SendPersonal(data.RecipientUsername, models.Frame{
		Type: "typing_indicator",
		Data: models.TypingIndicatorData{RecipientUsername: from, IsTyping: data.IsTyping},
	})
}

// decodeInto re-marshals frame.Data (decoded as map[string]any by the outer
// json.Unmarshal) into dst.
func decodeInto(data any, dst any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
