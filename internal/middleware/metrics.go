package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotshare_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// LikeOperations counts like/unlike writes by outcome.
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotshare_like_operations_total",
		Help: "Total like/unlike operations by action and outcome",
	}, []string{"action", "outcome"})

	// BlobUploads counts blob store uploads by outcome.
	BlobUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotshare_blob_uploads_total",
		Help: "Total blob store uploads by outcome",
	}, []string{"outcome"})

	// ExternalAPIRequests counts calls to the places and weather APIs.
	ExternalAPIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotshare_external_api_requests_total",
		Help: "Total external API requests by service and outcome",
	}, []string{"service", "outcome"})
)

// InitMetrics creates the Prometheus HTTP middleware. The server registers it
// and exposes /metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-level metrics handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
