package handler

import (
	"pmboard/internal/middleware"
	"pmboard/internal/session"

	"github.com/gin-gonic/gin"
)

// currentUser returns the session snapshot set by the auth middleware.
func currentUser(c *gin.Context) (session.User, bool) {
	value, exists := c.Get(middleware.SessionUserKey)
	if !exists {
		return session.User{}, false
	}
	user, ok := value.(session.User)
	return user, ok
}

func sessionToken(c *gin.Context) string {
	value, exists := c.Get(middleware.SessionTokenKey)
	if !exists {
		return ""
	}
	token, _ := value.(string)
	return token
}
