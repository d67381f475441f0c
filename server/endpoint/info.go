package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/juiceplant/version"
)

// startTime records when the process started for uptime calculation.
var startTime = time.Now()

// Info reports service version and build information.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := version.Get()
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    v.Short(),
			"build":      v,
			"is_release": v.IsRelease(),
			"uptime":     time.Since(startTime).Round(time.Second).String(),
		})
	}
}
