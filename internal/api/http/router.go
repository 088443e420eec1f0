package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/api/http/handlers"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Webhook   *handlers.WebhookHandler
	Signature *auth.SignatureMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	webhook := app.Group("/webhook")
	if cfg.Signature != nil {
		webhook.Use(cfg.Signature.Handle)
	}
	webhook.Get("", cfg.Webhook.Verify)
	webhook.Post("", cfg.Webhook.Receive)
}
