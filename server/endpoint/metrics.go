package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsSource contributes a named section to the /metrics body.
type MetricsSource struct {
	Name    string
	Collect func() any
}

// Metrics reports runtime memory and goroutine figures plus one section per source.
func Metrics(sources ...MetricsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		body := gin.H{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"memory": gin.H{
				"alloc_mb":       m.Alloc / 1024 / 1024,
				"total_alloc_mb": m.TotalAlloc / 1024 / 1024,
				"sys_mb":         m.Sys / 1024 / 1024,
				"gc_runs":        m.NumGC,
			},
		}
		for _, s := range sources {
			body[s.Name] = s.Collect()
		}
		c.JSON(http.StatusOK, body)
	}
}
