package middleware

import (
	"net/http"

	"recruitmeet/models"
	"recruitmeet/services/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuth.
const (
	ContextSessionID = "sessionID"
	ContextSession   = "session"
)

// SessionAuth resolves the X-Session-ID header against the session store and
// rejects requests whose session is missing or no longer logged in.
func SessionAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Recover from unexpected panics.
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		sessionID := c.GetHeader("X-Session-ID")
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing session",
				"code":  0,
			})
			return
		}

		sess, err := store.Load(c.Request.Context(), sessionID)
		if err != nil || !sess.LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired, please sign in again",
				"code":  0,
			})
			return
		}

		c.Set(ContextSessionID, sessionID)
		c.Set(ContextSession, sess)
		c.Next()
	}
}

// SessionFromContext returns the session placed by SessionAuth.
func SessionFromContext(c *gin.Context) (*models.Session, bool) {
	val, ok := c.Get(ContextSession)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*models.Session)
	return sess, ok
}
