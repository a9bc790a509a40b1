package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsAllowedHeaders = []string{
	"Content-Type",
	"Authorization",
	"X-Request-ID",
	"X-User-ID",
	"X-User-Email",
	"X-User-Role",
}

// CORS allows browser clients to call the API from any origin. Preflight
// requests are answered directly.
func CORS() gin.HandlerFunc {
	allowHeaders := strings.Join(corsAllowedHeaders, ", ")

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
