package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the anonymous cart session id.
	SessionCookieName = "cart_session"
	// SessionIDKey is the context key the cookie value is stored under.
	SessionIDKey = "cart_session_id"

	sessionCookieMaxAge = 30 * 24 * 60 * 60 // matches the guest cart TTL
)

// GuestSession assigns every visitor a stable session id cookie so an
// anonymous cart survives page reloads and browser restarts. Logged-in
// shoppers keep the cookie too; it is simply unused while their cart
// lives on the commerce backend.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID extracts the guest cart session id from context
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	return sessionID.(string), true
}
