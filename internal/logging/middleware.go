package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

// Middleware logs one line per request and makes sure every request has an id.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		Log(Fields{
			RequestID:  reqID,
			UserID:     c.GetString("user_id"),
			Method:     c.Request.Method,
			Path:       c.FullPath(),
			HTTPStatus: c.Writer.Status(),
			DurationMS: time.Since(start).Milliseconds(),
		})
	}
}
