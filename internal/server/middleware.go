package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catsnap/internal/auth"
	"catsnap/internal/session"
)

// RequireAuth resolves the session cookie and puts the caller's identity on
// the request context under user_id, handle and email.
func RequireAuth(sessions session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(auth.SessionCookie)
		if err != nil || sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("user_id", sess.UserID)
		c.Set("handle", sess.Handle)
		c.Set("email", sess.Email)

		c.Next()
	}
}
