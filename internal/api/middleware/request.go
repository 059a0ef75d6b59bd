package middleware

import (
	"github.com/agentdesk/host/internal/shared/id"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader is the header carrying the bridge request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a correlation ID to every bridge request, preserving one
// supplied by the caller. Generated IDs use the host's prefixed ULID scheme.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}
