package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-formatter/internal/shared/server/respond"
)

const (
	sessionIDKey      = "sessionId"
	sessionHeader     = "X-Session-Id"
	maxSessionIDLen   = 128
	sessionCookieLife = 30 * 24 * 60 * 60
)

// Session resolves the browser session from the X-Session-Id header or the
// session cookie, minting a new id when neither is present.
func Session(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if id == "" && cookieName != "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				id = strings.TrimSpace(cookie)
			}
		}

		if id == "" {
			id = uuid.NewString()
			if cookieName != "" {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cookieName, id, sessionCookieLife, "/", "", secure, true)
			}
		} else if !validSessionID(id) {
			respond.Error(c, http.StatusBadRequest, "invalid_session", "Invalid session id", nil)
			return
		}

		c.Set(sessionIDKey, id)
		c.Writer.Header().Set(sessionHeader, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

func validSessionID(id string) bool {
	if len(id) > maxSessionIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
