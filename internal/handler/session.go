package handler

import (
	"net/http"
	"strings"
	"time"

	"carprice/internal/service"

	"github.com/gin-gonic/gin"
)

// usernameKey is the gin context key holding the signed-in user
const usernameKey = "username"

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware guards routes that need a signed-in user
type SessionMiddleware struct {
	sessions *service.SessionStore
	cookie   CookieConfig
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(sessions *service.SessionStore, cookie CookieConfig) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, cookie: cookie}
}

// RequirePage redirects anonymous browsers to the login page
func (m *SessionMiddleware) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPI rejects anonymous API calls with 401
func (m *SessionMiddleware) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Next()
	}
}

// authenticate accepts the session cookie, falling back to a bearer token
// when the cookie is missing or stale
func (m *SessionMiddleware) authenticate(c *gin.Context) bool {
	var candidates []string
	if token, err := c.Cookie(m.cookie.Name); err == nil && token != "" {
		candidates = append(candidates, token)
	}
	if token := bearerToken(c.GetHeader("Authorization")); token != "" {
		candidates = append(candidates, token)
	}
	for _, token := range candidates {
		if session, ok := m.sessions.Lookup(token); ok {
			c.Set(usernameKey, session.Username)
			return true
		}
	}
	return false
}

// start opens a session and sets its cookie
func (m *SessionMiddleware) start(c *gin.Context, username string) {
	session := m.sessions.Create(username)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, session.Token, int(m.cookie.TTL.Seconds()), "/", "", m.cookie.Secure, true)
}

// end drops the current session, if any, and expires its cookie
func (m *SessionMiddleware) end(c *gin.Context) {
	if token, err := c.Cookie(m.cookie.Name); err == nil {
		m.sessions.Delete(token)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// currentUser returns the username set by the session middleware
func currentUser(c *gin.Context) string {
	return c.GetString(usernameKey)
}
