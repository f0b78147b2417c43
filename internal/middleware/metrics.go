package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/pkg/metrics"
)

// Metrics observes per-route request latency. The route template is used as
// the path label so /job/:id stays one series instead of one per job; the
// scrape endpoint itself is excluded to keep the series set clean.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/metrics" {
			c.Next()
			return
		}
		if route == "" {
			route = c.Request.URL.Path
		}

		start := time.Now()
		c.Next()

		metrics.APILatency.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
