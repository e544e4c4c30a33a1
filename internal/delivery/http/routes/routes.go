package routes

import (
	"jobpulse/internal/delivery/http/handler"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	Health          *handler.HealthHandler
	Postings        *handler.PostingHandler
	Recommendations *handler.RecommendationHandler
	Interactions    *handler.InteractionHandler
	Admin           *handler.AdminHandler
	Runs            *ws.Handler
	Auth            *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	r.Postings.RegisterRoutes(v1)
	r.Recommendations.RegisterRoutes(v1)
	r.Interactions.RegisterRoutes(v1, r.Auth)
	r.Admin.RegisterRoutes(v1)

	if r.Runs != nil {
		app.Get("/ws/runs", r.Runs.HandleRunsWS)
	}
}
