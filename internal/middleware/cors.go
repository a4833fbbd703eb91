package middleware

import (
	"strings"

	"github.com/ayaka01/chimeo-core/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS applies cfg's origin/method/header whitelist, generalized from the
// teacher's internal/api/middleware.CORS (which hardcoded its origin list
// and read ALLOWED_ORIGINS directly); here the whitelist comes from config
// loaded once at the process boundary instead.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")
		if origin != "" && originAllowed(cfg.Origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.Methods, ", "))
		c.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.Headers, ", "))

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
