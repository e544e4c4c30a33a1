package app

import (
	"context"
	"fmt"
	"strings"

	"jobpulse/internal/config"
	"jobpulse/internal/delivery/http/handler"
	"jobpulse/internal/delivery/http/middleware"
	"jobpulse/internal/delivery/http/routes"
	"jobpulse/internal/pkg/jwt"
	"jobpulse/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, wires the HTTP surface and starts the
// scheduler. The returned cleanup stops the scheduler and closes the
// container.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())

	jwtSvc := jwt.NewHMACService(cfg.JWT.Secret)

	registry := &routes.Registry{
		Health:          handler.NewHealthHandler(c.DB, c.Redis),
		Postings:        handler.NewPostingHandler(c.Postings),
		Recommendations: handler.NewRecommendationHandler(c.Recommendations),
		Interactions:    handler.NewInteractionHandler(c.Lifecycle),
		Admin:           handler.NewAdminHandler(c.Scheduler, c.Lifecycle, c.Runs),
		Runs:            ws.NewHandler(c.Hub, c.Logger),
		Auth:            middleware.NewAuthMiddleware(jwtSvc),
	}
	registry.Register(f)

	if err := c.Scheduler.Start(context.Background()); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	cleanup := func() error {
		c.Scheduler.Stop()
		return c.Close()
	}

	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
