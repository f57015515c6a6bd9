package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) validToken(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.token)) == 1
}

// requireSession redirects to /login when the gate is on and the session
// cookie is missing or wrong
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if cookie, err := c.Cookie(SessionCookie); err == nil && s.validToken(cookie) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

func (s *Server) handleLoginPage(c *gin.Context) {
	c.String(http.StatusOK, "moodlist task store\nPOST the session token to /login as form field or JSON {\"token\": \"...\"}\n")
}

func (s *Server) handleLogin(c *gin.Context) {
	if s.token == "" {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	token := c.PostForm("token")
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		_ = c.ShouldBindJSON(&body)
		token = body.Token
	}

	if !s.validToken(strings.TrimSpace(token)) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
		return
	}
	c.SetCookie(SessionCookie, s.token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
