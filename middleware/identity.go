package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "cart_session"

// ResolveVisitor identifies the visitor for cart routes. A valid JWT wins
// and sets user_id; otherwise the anonymous session cookie is used, minted
// and bound to the response before any cart lookup happens. Both identities
// are opaque strings downstream; never both at once.
func ResolveVisitor(c *gin.Context) {
	if tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "); tokenString != "" {
		if claims, err := parseToken(tokenString); err == nil {
			c.Set("user_id", claims["user_id"])
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
			c.Next()
			return
		}
	}

	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		c.SetCookie(sessionCookie, sessionID, int((7 * 24 * time.Hour).Seconds()), "/", "", false, true)
	}
	c.Set("session_id", sessionID)
	c.Next()
}
