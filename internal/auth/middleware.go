package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set for authenticated requests
const (
	CtxProfileID = "profile_id"
	CtxEmail     = "email"
	CtxName      = "name"
	CtxPicture   = "picture"
)

// AuthMiddleware validates the session cookie and exposes the identity
// snapshot to handlers through the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if session.IsExpired() {
			DeleteSession(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			c.Abort()
			return
		}

		c.Set(CtxProfileID, session.ProfileID)
		c.Set(CtxEmail, session.Email)
		c.Set(CtxName, session.Name)
		c.Set(CtxPicture, session.Picture)

		c.Next()
	}
}
