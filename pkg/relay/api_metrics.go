package relay

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/telekom/mailgate/pkg/metrics"
)

// instrument labels an endpoint's Prometheus series and wraps its handler.
// The request counter increments before the handler runs; any 4xx or 5xx
// written status additionally feeds the error counter.
func instrument(endpoint string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.APIEndpointRequests.WithLabelValues(endpoint).Inc()
		start := time.Now()
		handler(c)
		metrics.APIEndpointDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			metrics.APIEndpointErrors.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		}
	}
}
