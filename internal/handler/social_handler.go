package handler

import (
	"net/http"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/middleware"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/service"

	"github.com/gin-gonic/gin"
)

const minSearchQueryLength = 3

// SocialHandler adapts SocialService to the /users endpoints.
type SocialHandler struct {
	social service.SocialService
}

func NewSocialHandler(social service.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

// Search godoc
// @Summary Search users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "search query, at least 3 characters"
// @Success 200 {array} models.Public
// @Failure 422 {object} apierr.Body
// @Router /users/search [get]
func (h *SocialHandler) Search(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	q := c.Query("q")
	if len(q) < minSearchQueryLength {
		status, body := apierr.ValidationBody(map[string]string{"q": "must be at least 3 characters"})
		c.JSON(status, body)
		return
	}

	results, err := h.social.Search(c.Request.Context(), q, user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListFriends godoc
// @Summary List accepted friends
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Public
// @Router /users/friends [get]
func (h *SocialHandler) ListFriends(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	friends, err := h.social.ListFriends(c.Request.Context(), user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// SendFriendRequest godoc
// @Summary Send a friend request
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendFriendRequestBody true "recipient username"
// @Success 200 {object} models.FriendRequestResponse
// @Failure 400 {object} apierr.Body
// @Failure 404 {object} apierr.Body
// @Failure 409 {object} apierr.Body
// @Router /users/friends/request [post]
func (h *SocialHandler) SendFriendRequest(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var req models.SendFriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	resp, err := h.social.SendRequest(c.Request.Context(), user.Username, req.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RespondFriendRequest godoc
// @Summary Accept or reject a friend request
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RespondFriendRequestBody true "request id and action"
// @Success 200 {object} models.Public
// @Failure 400 {object} apierr.Body
// @Failure 403 {object} apierr.Body
// @Failure 404 {object} apierr.Body
// @Router /users/friends/respond [post]
func (h *SocialHandler) RespondFriendRequest(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var req models.RespondFriendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	switch req.Action {
	case "accept":
		other, err := h.social.AcceptRequest(c.Request.Context(), req.RequestID, user.Username)
		if err != nil {
			status, body := apierr.ToBody(err)
			c.JSON(status, body)
			return
		}
		c.JSON(http.StatusOK, other)
	case "reject":
		other, err := h.social.RejectRequest(c.Request.Context(), req.RequestID, user.Username)
		if err != nil {
			status, body := apierr.ToBody(err)
			c.JSON(status, body)
			return
		}
		c.JSON(http.StatusOK, other)
	default:
		status, body := apierr.ValidationBody(map[string]string{"action": "must be \"accept\" or \"reject\""})
		c.JSON(status, body)
	}
}

// ListReceivedRequests godoc
// @Summary List friend requests received
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FriendRequestResponse
// @Router /users/friends/requests/received [get]
func (h *SocialHandler) ListReceivedRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reqs, err := h.social.ListReceived(c.Request.Context(), user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

// ListSentRequests godoc
// @Summary List friend requests sent
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FriendRequestResponse
// @Router /users/friends/requests/sent [get]
func (h *SocialHandler) ListSentRequests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reqs, err := h.social.ListSent(c.Request.Context(), user.Username)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, reqs)
}
