package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/logger"
)

// RequestLoggingMiddleware logs one line per request with latency and
// client details.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		url := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			url += "?" + q
		}

		c.Next()

		logger.Infof("HTTP %s %s status=%d latency_ms=%d client_ip=%s user_agent=%q",
			c.Request.Method, url, c.Writer.Status(),
			time.Since(started).Milliseconds(), c.ClientIP(), c.Request.UserAgent())
	}
}
