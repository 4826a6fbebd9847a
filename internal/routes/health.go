package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/congo-pay/pinledger/internal/metrics"
)

// RegisterHealthRoutes adds liveness and dependency checks. Postgres and Redis
// report "disabled" when the process runs without them.
func RegisterHealthRoutes(app *fiber.App, d Deps, accounts func() int) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus := "disabled"
		redisStatus := "disabled"

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			dbStatus = "ok"
			if err := d.DB.Ping(ctx); err != nil {
				dbStatus = err.Error()
			}
		}
		if d.Cache != nil {
			redisStatus = "ok"
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				redisStatus = err.Error()
			}
		}
		status := http.StatusOK
		if !healthy(dbStatus) || !healthy(redisStatus) {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"postgres": dbStatus, "redis": redisStatus},
			"accounts":  accounts(),
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

// RegisterMetricsRoute exposes the collector in the Prometheus text format.
func RegisterMetricsRoute(app *fiber.App, collector *metrics.Collector) {
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))
}

func healthy(status string) bool {
	return status == "ok" || status == "disabled"
}
