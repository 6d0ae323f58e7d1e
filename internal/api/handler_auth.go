package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"recycling-admin-backend/internal/mw"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. A successful login returns a session token
// and sets the session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.auth.Password)) == 1
	if h.auth.Username == "" || !userOK || !passOK {
		h.log.Info("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token := h.sessions.Create(req.Username)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(mw.SessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	mw.SetUser(c, req.Username)
	h.record(c, "登录", "", "")
	c.JSON(http.StatusOK, gin.H{"token": token, "username": req.Username})
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(c *gin.Context) {
	if token := mw.Token(c); token != "" {
		h.sessions.Revoke(token)
	}
	c.SetCookie(mw.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// GetSession handles GET /api/session.
func (h *Handler) GetSession(c *gin.Context) {
	user, ok := h.sessions.Lookup(mw.Token(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false, "authRequired": h.auth.Enabled})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "username": user, "authRequired": h.auth.Enabled})
}
