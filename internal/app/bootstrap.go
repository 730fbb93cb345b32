package app

import (
	"fmt"
	"strings"

	"skill-graph/internal/config"
	"skill-graph/internal/delivery/http/handler"
	"skill-graph/internal/delivery/http/middleware"
	"skill-graph/internal/delivery/http/routes"
	"skill-graph/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app around an already constructed matching use case.
func New(cfg *config.Config, uc usecase.MatchingUsecase, checks map[string]handler.Pinger, logger *zap.Logger) *App {
	f := fiber.New(fiber.Config{
		AppName:     cfg.App.AppName,
		ReadTimeout: cfg.App.RequestTimeout,
	})

	registerGlobalMiddleware(f, logger)

	reg := routes.NewRegistry(handler.NewHealthHandler(checks), handler.NewMatchHandler(uc))
	reg.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	app := New(cfg, c.Matching, c.HealthChecks(), logger)
	app.Container = c
	logger.Info("app bootstrapped",
		zap.String("backend", cfg.Graph.Backend),
		zap.Bool("cache", cfg.Redis.Enabled),
		zap.Bool("breaker", cfg.Graph.BreakerEnabled),
	)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
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
