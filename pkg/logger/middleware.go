package logger

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (taken from X-Request-ID or
// generated), logs it on completion and logs 5xx responses as errors
func RequestLogger(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := l.WithRequestID(requestID)

		c.Next()

		reqLog.LogHTTPRequest(c, time.Since(start))
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			err := errors.New(http.StatusText(status))
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			reqLog.LogHTTPError(c, err, status)
		}
	}
}
