// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// readyTimeout bounds a single dependency probe.
const readyTimeout = 2 * time.Second

// Health handles the /healthz liveness endpoint.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Probe checks one backing dependency.
type Probe func(ctx context.Context) error

// Ready returns a /readyz handler that runs every probe and reports 503 if any fails.
// Probes with a nil func are reported as "disabled".
func Ready(probes map[string]Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(probes))
		for name, probe := range probes {
			if probe == nil {
				results[name] = "disabled"
				continue
			}
			if err := probe(ctx); err != nil {
				logrus.WithError(err).WithField("dependency", name).Warn("readiness probe failed")
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
	}
}
