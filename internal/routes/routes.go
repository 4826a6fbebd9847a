package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/pinledger/internal/account"
	"github.com/congo-pay/pinledger/internal/auth"
	"github.com/congo-pay/pinledger/internal/config"
	"github.com/congo-pay/pinledger/internal/journal"
	"github.com/congo-pay/pinledger/internal/ledger"
	"github.com/congo-pay/pinledger/internal/metrics"
	"github.com/congo-pay/pinledger/internal/middleware"
	"github.com/congo-pay/pinledger/internal/notification"
	"github.com/congo-pay/pinledger/internal/payments"
)

const tokenIssuer = "pinledger"

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// main also checks, but Setup can be called directly.
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDevelopment() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	// Services
	led := ledger.New(
		ledger.WithFirstAccountID(d.Cfg.FirstAccountID),
		ledger.WithPINCost(d.Cfg.PINHashCost),
	)
	collector := metrics.NewCollector()

	var sink journal.Sink = journal.NewLogSink(d.Logger)
	if d.DB != nil {
		pgSink := journal.NewPostgresSink(d.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pgSink.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = pgSink
	}
	notifier := notification.NewLoggerNotifier(d.Logger)

	accountSvc := account.NewService(led, sink, collector, d.Logger, d.Cfg.StatementSize)
	authSvc := auth.NewService(led, d.Cfg.JWTSecret, d.Cfg.AccessTokenTTL, tokenIssuer, collector)
	paymentSvc := payments.NewService(led, sink, notifier, collector, d.Logger)

	accountHandler := account.NewHandler(accountSvc)
	authHandler := auth.NewHandler(authSvc)
	paymentHandler := payments.NewHandler(paymentSvc)

	// Ops
	RegisterHealthRoutes(app, d, led.Len)
	RegisterMetricsRoute(app, collector)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterAccountRoutes(api, accountHandler)
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttemptsPerMinute))

	// Protected routes
	protected := []fiber.Handler{
		middleware.JWTAuth(authSvc),
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
	}
	RegisterAccountMeRoutes(api, accountHandler, protected...)
	RegisterPaymentRoutes(api, paymentHandler, protected...)

	return nil
}
