// Package middleware holds the gin middleware chain: bearer authentication,
// CORS, and request logging.
package middleware

import (
	"strings"

	"github.com/ayaka01/chimeo-core/internal/apierr"
	"github.com/ayaka01/chimeo-core/internal/models"
	"github.com/ayaka01/chimeo-core/internal/service"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "user"

// Auth requires a valid "Bearer <token>" Authorization header, resolves it
// to its owning user through AuthService.ResolveBearer, and stores the user
// in the gin context under contextUserKey for downstream handlers.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			status, body := apierr.ToBody(apierr.ErrAuthentication)
			c.AbortWithStatusJSON(status, body)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			status, body := apierr.ToBody(apierr.ErrAuthentication)
			c.AbortWithStatusJSON(status, body)
			return
		}

		user, err := authService.ResolveBearer(c.Request.Context(), token)
		if err != nil {
			status, body := apierr.ToBody(err)
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser fetches the user stored by Auth. Handlers behind Auth can
// always rely on this returning true; it is false only if CurrentUser is
// called from a route not mounted behind Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}
