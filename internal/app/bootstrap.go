package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"signal-radar/internal/config"
	"signal-radar/internal/database/seeder"
	"signal-radar/internal/delivery/http/handler"
	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/delivery/http/routes"
	v1 "signal-radar/internal/delivery/http/routes/v1"
	"signal-radar/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application on top of c. It does not touch the
// database schema.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Config, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects to the backing services, migrates, seeds the fixed
// category rows and returns the ready application.
func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if err := c.Seed(ctx, seeder.Defaults()); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("seed: %w", err)
	}
	// category rows may have been (re)seeded underneath a warm cache
	if err := c.Cache.DeleteByPattern(ctx, "categories:*"); err != nil {
		c.Logger.Warn("category cache flush failed", zap.Error(err))
	}

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())

	corsCfg := cors.Config{}
	if len(cfg.App.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.App.CORSOrigins
	}
	app.Use(cors.New(corsCfg))
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT, c.Users)

	handlers := v1.Handlers{
		Auth:     handler.NewAuthHandler(c.AuthUC, c.UserUC),
		User:     handler.NewUserHandler(c.UserUC),
		Signal:   handler.NewSignalHandler(c.SignalUC, c.MatchingUC),
		Category: handler.NewCategoryHandler(c.CategoryUC),
		Chat:     handler.NewChatHandler(c.ChatUC),
		ChatWS:   ws.NewHandler(c.Hub, c.JWT, c.Users, c.ChatUC, c.Logger),
	}

	routes.NewRegistry(handler.NewHealthHandler(c.DB, c.Cache), handlers, authMw.Middleware()).Register(app)
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
