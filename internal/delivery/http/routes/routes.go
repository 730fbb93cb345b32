package routes

import (
	"skill-graph/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.MatchHandler
}

func NewRegistry(health *handler.HealthHandler, match *handler.MatchHandler) *Registry {
	return &Registry{health: health, match: match}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	r.match.RegisterRoutes(api.Group("/v1"))
}
