package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminSubjectKey = "admin_subject"

// TokenVerifier checks a bearer token and returns its subject.
type TokenVerifier interface {
	Enabled() bool
	Verify(token string) (string, error)
}

// AdminAuth requires a valid bearer token when v is enabled and passes
// every request through otherwise.
func AdminAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil || !v.Enabled() {
			c.Next()
			return
		}
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(c, "Missing bearer token")
			return
		}
		sub, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		c.Set(adminSubjectKey, sub)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"error":      msg,
		"request_id": GetRequestID(c),
	})
}

// AdminSubject is the authenticated admin, empty when auth is off.
func AdminSubject(c *gin.Context) string {
	return c.GetString(adminSubjectKey)
}
