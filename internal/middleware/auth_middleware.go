package middleware

import (
	"net/http"

	"pmboard/internal/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuth for downstream handlers.
const (
	SessionUserKey  = "sessionUser"
	SessionTokenKey = "sessionToken"
)

// SessionCookieName carries the opaque session token.
const SessionCookieName = "pm_session"

// SessionAuth resolves the session cookie against the store and aborts with
// 401 when the token is missing or unknown.
func SessionAuth(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		user, ok := store.Resolve(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		c.Set(SessionUserKey, user)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}
