package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	headerUserID = "X-User-ID"

	// AnonymousUser owns generations made without gateway auth
	AnonymousUser = "anonymous"
)

// GatewayAuth trusts the caller identity set by the gateway in front of the
// melody API. The gateway validates tokens and applies rate limits; this
// service only records who asked, so generation history can be filtered per
// user.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used behind the gateway with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			c.Abort()
			return
		}

		setUser(c, userID)
		c.Next()
	}
}

// NoAuth lets every request through as the anonymous user. Used when
// AUTH_MODE=none (self-hosted, local dev).
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		setUser(c, AnonymousUser)
		c.Next()
	}
}

func setUser(c *gin.Context, userID string) {
	c.Set("user_id", userID)
	c.Set("user_id_str", userID)
}

// GetUserIDFromGateway retrieves the user ID set by GatewayAuth or NoAuth.
// Returns the ID and a boolean indicating if it was found.
func GetUserIDFromGateway(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id_str")
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
