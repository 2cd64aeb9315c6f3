package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/metrics"
)

// MetricsMiddleware observes every request under its route template so
// /stations/:stationID stays one label regardless of the station hit.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(started).Seconds(),
		)
	}
}
