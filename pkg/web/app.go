package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp wires the API routes. requestLogging enables the access log middleware.
func NewApp(handlers *APIHandlers, requestLogging bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "privacyflow",
	})

	if requestLogging {
		app.Use(logger.New(logger.Config{
			DisableColors: true,
		}))
	}

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("PrivacyFlow API")
	})

	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/resources", handlers.ListOperations)
	app.Post("/resources/:resource/operations/:operation", handlers.ExecuteOperation)

	app.Get("/messages/poll", handlers.PollMessages)

	return app
}

// Start serves the app on addr until it fails or is shut down.
func Start(app *fiber.App, addr string, log *slog.Logger) error {
	log.Info("Starting PrivacyFlow API", "addr", addr)

	return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}
