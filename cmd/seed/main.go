package main

import (
	"context"
	"flag"
	"log"
	"time"

	"signal-radar/internal/app"
	"signal-radar/internal/config"
	"signal-radar/internal/database/seeder"
	"signal-radar/internal/observability"

	"go.uber.org/zap"
)

func main() {
	demo := flag.Bool("demo", false, "also create demo users and signals")
	password := flag.String("password", "password123", "password for demo users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to init container", zap.Error(err))
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := c.Migrate(ctx); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	seeders := seeder.Defaults()
	if *demo {
		seeders = seeder.Demo(*password)
	}
	if err := c.Seed(ctx, seeders); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed completed", zap.Int("seeders", len(seeders)), zap.Bool("demo", *demo))
}
