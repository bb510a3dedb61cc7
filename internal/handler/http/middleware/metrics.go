package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MattHalloran/NLN-sub003/internal/utils/metrics"
)

// MetricsMiddleware records request counts, response statuses, and latency.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.RequestsTotal.Inc()
		start := time.Now()

		c.Next()

		metrics.RequestDuration.Observe(time.Since(start).Seconds())
		metrics.ResponsesTotal.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
	}
}
