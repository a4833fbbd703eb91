package handler

import (
	"net/http"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/middleware"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler adapts AuthService to the register/login/refresh endpoints.
type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user account and return an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration payload"
// @Success 201 {object} models.Token
// @Failure 422 {object} apierr.Body
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	token, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, token)
}

// Login godoc
// @Summary Log in
// @Description Exchange email/password for an access/refresh token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login payload"
// @Success 200 {object} models.Token
// @Failure 401 {object} apierr.Body
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Refresh godoc
// @Summary Refresh an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest true "Refresh payload"
// @Success 200 {object} models.Token
// @Failure 401 {object} apierr.Body
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, body := apierr.ValidationBody(map[string]string{"body": err.Error()})
		c.JSON(status, body)
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		status, body := apierr.ToBody(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Public
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		status, body := apierr.ToBody(apierr.ErrAuthentication)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}
