package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "recycling_session"

const userKey = "session.user"

// Sessions keeps admin login tokens in memory until they expire.
type Sessions struct {
	tokens *cache.Cache
	ttl    time.Duration
}

// NewSessions creates a session store whose tokens live for ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		tokens: cache.New(ttl, ttl/2+time.Minute),
		ttl:    ttl,
	}
}

// TTL returns the lifetime of a new session.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create issues a token for username.
func (s *Sessions) Create(username string) string {
	token := uuid.NewString()
	s.tokens.Set(token, username, s.ttl)
	return token
}

// Lookup returns the username behind token.
func (s *Sessions) Lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	v, ok := s.tokens.Get(token)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Revoke ends a session. Unknown tokens are ignored.
func (s *Sessions) Revoke(token string) {
	s.tokens.Delete(token)
}

// Token extracts the session token from the bearer header or the session cookie.
func Token(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// Authenticate resolves the caller's session, if any, and stores the user on
// the context. When required is true requests without a valid session are
// rejected with 401.
func (s *Sessions) Authenticate(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := s.Lookup(Token(c)); ok {
			SetUser(c, user)
		} else if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// SetUser marks the request as performed by user.
func SetUser(c *gin.Context, user string) {
	c.Set(userKey, user)
}

// User returns the authenticated username stored by Authenticate.
func User(c *gin.Context) (string, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return "", false
	}
	user, ok := v.(string)
	return user, ok
}
