package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsMiddleware answers preflights and echoes the caller's origin when it is
// on the allow list; an empty list allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		if origin, ok := resolveOrigin(c.GetHeader("Origin"), allowed); ok {
			headers.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				headers.Add("Vary", "Origin")
			}
		}
		headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		headers.Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func resolveOrigin(requestOrigin string, allowed []string) (string, bool) {
	if len(allowed) == 0 {
		return "*", true
	}
	for _, candidate := range allowed {
		if candidate == "*" {
			return "*", true
		}
		if requestOrigin != "" && strings.EqualFold(candidate, requestOrigin) {
			return requestOrigin, true
		}
	}
	return "", false
}
