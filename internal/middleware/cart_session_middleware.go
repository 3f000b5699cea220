package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CartSessionKey = "cart_session"

type CartSessionConfig struct {
	CookieName string
	MaxAge     int
	Secure     bool
}

// CartSession issues an HTTP-only session cookie identifying the shopper's
// cart. A missing or malformed cookie is replaced with a fresh uuid.
func CartSession(cfg CartSessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sessionID, cfg.MaxAge, "/", "", cfg.Secure, true)

			GetLoggerFromContext(c).Debug("Issued cart session", map[string]interface{}{
				"session": sessionID,
			})
		}

		c.Set(CartSessionKey, sessionID)
		c.Next()
	}
}

func GetCartSession(c *gin.Context) string {
	return c.GetString(CartSessionKey)
}
