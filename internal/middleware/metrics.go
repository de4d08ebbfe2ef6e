package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	metricsOnce sync.Once
	metricsProm *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP metrics recorder for the service.
// The returned instance is registered on the app via RegisterAt to expose
// the /metrics scrape endpoint. The recorder registers collectors in the
// default registry, which tolerates only one registration per process, so
// repeated calls return the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	metricsOnce.Do(func() {
		metricsProm = fiberprometheus.New(serviceName)
	})
	return metricsProm
}

// MetricsMiddleware adapts the Prometheus recorder into a Fiber handler
// that times every request.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
