package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/pizza-service/internal/api/http/handlers"
	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Franchises *handlers.FranchiseHandler
	Orders     *handlers.OrderHandler
	Gate       *auth.Gate
	Metrics    *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Every /api request passes the gate;
// protected routes additionally require a principal.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", cfg.Gate.Authenticate)
	requireAuth := auth.RequireAuth()

	authGroup := api.Group("/auth")
	authGroup.Post("", cfg.Auth.Register)
	authGroup.Put("", cfg.Auth.Login)
	authGroup.Delete("", requireAuth, cfg.Auth.Logout)
	authGroup.Put("/:userId", requireAuth, cfg.Auth.UpdateUser)

	franchise := api.Group("/franchise")
	franchise.Get("", cfg.Franchises.List)
	franchise.Get("/:userId", requireAuth, cfg.Franchises.ListForUser)
	franchise.Post("", requireAuth, cfg.Franchises.Create)
	franchise.Delete("/:franchiseId", requireAuth, cfg.Franchises.Delete)
	franchise.Post("/:franchiseId/store", requireAuth, cfg.Franchises.CreateStore)
	franchise.Delete("/:franchiseId/store/:storeId", requireAuth, cfg.Franchises.DeleteStore)

	order := api.Group("/order")
	order.Get("/menu", cfg.Orders.Menu)
	order.Put("/menu", requireAuth, cfg.Orders.AddMenuItem)
	order.Get("", requireAuth, cfg.Orders.List)
	order.Post("", requireAuth, cfg.Orders.Create)
}
