package handler

import (
	"net/http"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/middleware"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/service"
	"github.com/ayaka01/chimeo-core/internal/ws"

	"github.com/gin-gonic/gin"
)

// MessageHandler adapts MessageService to the /messages HTTP endpoints. The
// realtime immediate-push side effect on Send lives here rather than inside
// MessageService, keeping the connection manager a pure transport-layer
// concern.
type MessageHandler struct {
	messages service.MessageService
	manager  *ws.Manager
}

func NewMessageHandler(messages service.MessageService, manager *ws.Manager) *MessageHandler {
	return &MessageHandler{messages: messages, manager: manager}
}

// Send godoc
// @Summary Send a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendMessageBody true "recipient and text"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} apierr.Body
// @Router /messages/ [post]
func (h *MessageHandler) Send(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var req models.SendMessageBody
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), user.Username, req.RecipientUsername, req.Text)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}

	resp := msg.Response()
	h.manager.SendPersonal(req.RecipientUsername, models.Frame{
		Type: "new_message",
		Data: models.NewMessageData{
			ID:                resp.ID,
			SenderUsername:    resp.SenderUsername,
			RecipientUsername: resp.RecipientUsername,
			Text:              resp.Text,
			CreatedAt:         resp.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		},
	})

	c.JSON(http.StatusOK, resp)
}

// ListPending godoc
// @Summary List messages awaiting delivery
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MessageResponse
// @Router /messages/pending [get]
func (h *MessageHandler) ListPending(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	pending, err := h.messages.ListPending(c.Request.Context(), user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}

	out := make([]models.MessageResponse, len(pending))
	for i, m := range pending {
		out[i] = m.Response()
	}
	c.JSON(http.StatusOK, out)
}

// MarkDelivered godoc
// @Summary Acknowledge delivery over the HTTP surface
// @Tags messages
// @Security BearerAuth
// @Param message_id path string true "pending message id"
// @Success 204
// @Failure 403 {object} apierr.Body
// @Failure 404 {object} apierr.Body
// @Router /messages/delivered/{message_id} [post]
func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	messageID := c.Param("message_id")

	msg, err := h.messages.Ack(c.Request.Context(), messageID, user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}

	h.manager.SendPersonal(msg.SenderUsername, models.Frame{
		Type: "message_delivered",
		Data: models.MessageDeliveredData{MessageID: msg.ID},
	})
	c.Status(http.StatusNoContent)
}
