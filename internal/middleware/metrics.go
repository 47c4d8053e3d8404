package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leanNunez/Ecommerce-Tucuman/pkg/metrics"
)

// Metrics records a request counter and latency histogram per route pattern.
// The gin route path (not the raw URL) keeps label cardinality bounded.
func Metrics(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(startTime).Milliseconds()))
	}
}
