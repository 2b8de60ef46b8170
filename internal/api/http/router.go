package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/healthcare-accounts/internal/api/http/handlers"
	"github.com/spec-kit/healthcare-accounts/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Providers      *handlers.ProvidersHandler
	Patients       *handlers.PatientsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	v1 := app.Group("/api/v1")

	provider := v1.Group("/provider")
	provider.Post("/register", cfg.Providers.Register)
	if cfg.LoginLimiter != nil {
		provider.Post("/login", cfg.LoginLimiter, cfg.Providers.Login)
	} else {
		provider.Post("/login", cfg.Providers.Login)
	}

	patient := v1.Group("/patient")
	patient.Post("/register", cfg.Patients.Register)
	if cfg.LoginLimiter != nil {
		patient.Post("/login", cfg.LoginLimiter, cfg.Patients.Login)
	} else {
		patient.Post("/login", cfg.Patients.Login)
	}

	patient.Get("/me", cfg.AuthMiddleware.Handle, auth.RequirePatient(), cfg.Patients.Me)

	providerOnly := patient.Group("", cfg.AuthMiddleware.Handle, auth.RequireProvider())
	providerOnly.Get("/:id", cfg.Patients.Get)
	providerOnly.Put("/:id/verify-email", cfg.Patients.VerifyEmail)
	providerOnly.Put("/:id/verify-phone", cfg.Patients.VerifyPhone)
	providerOnly.Put("/:id/deactivate", cfg.Patients.Deactivate)
}
