package handler

import (
	"github.com/ayaka01/chimeo-core/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RealtimeHandler wires the ws.Endpoint handshake into the
// `/messages/ws/{username}?token=...` gin route.
type RealtimeHandler struct {
	endpoint *ws.Endpoint
}

func NewRealtimeHandler(endpoint *ws.Endpoint) *RealtimeHandler {
	return &RealtimeHandler{endpoint: endpoint}
}

// Serve godoc
// @Summary Open a realtime message channel
// @Tags messages
// @Param username path string true "channel owner, must match the token subject"
// @Param token query string true "access token"
// @Description A token that fails to decode, or whose subject differs from username, gets the socket closed with code 1008 (policy violation).
// @Success 101 {string} string "switching protocols"
// @Router /messages/ws/{username} [get]
func (h *RealtimeHandler) Serve(c *gin.Context) {
	username := c.Param("username")
	token := c.Query("token")

	if err := h.endpoint.Authenticate(token, username); err != nil {
		socket, uerr := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
		if uerr != nil {
			return
		}
		_ = socket.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "policy violation"))
		socket.Close()
		return
	}

	h.endpoint.Serve(c.Writer, c.Request, username)
}
