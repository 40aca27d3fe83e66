package app

import (
	"context"
	"errors"
	"time"

	"signal-radar/internal/config"
	"signal-radar/internal/database"
	"signal-radar/internal/database/migration"
	dbpostgres "signal-radar/internal/database/postgres"
	"signal-radar/internal/database/seeder"
	"signal-radar/internal/domain/matching"
	"signal-radar/internal/infrastructure/cache"
	"signal-radar/internal/infrastructure/llm"
	"signal-radar/internal/pkg/jwt"
	"signal-radar/internal/repository"
	"signal-radar/internal/usecase"
	"signal-radar/internal/ws"
	"signal-radar/migrations"

	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the HTTP surface and
// the command-line tools.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	JWT    jwt.Service

	Users      *repository.PostgresUserRepository
	Signals    *repository.PostgresSignalRepository
	Categories *repository.PostgresCategoryRepository
	Messages   *repository.PostgresMessageRepository

	AuthUC     *usecase.Auth
	UserUC     *usecase.User
	SignalUC   *usecase.Signal
	CategoryUC *usecase.Category
	MatchingUC *usecase.Matching
	ChatUC     *usecase.Chat
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	return NewContainerWithDB(cfg, db, logger), nil
}

// NewContainerWithDB wires everything on top of an already-open database.
func NewContainerWithDB(cfg config.Config, db database.DB, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
		JWT:    jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
	}

	c.Users = repository.NewPostgresUserRepository(db)
	c.Signals = repository.NewPostgresSignalRepository(db)
	c.Categories = repository.NewPostgresCategoryRepository(db)
	c.Messages = repository.NewPostgresMessageRepository(db)

	engine := matching.NewEngine(c.Signals, newScorer(cfg.OpenAI, logger), logger)

	c.AuthUC = usecase.NewAuthUsecase(c.Users, c.JWT)
	c.UserUC = usecase.NewUserUsecase(c.Users, c.Cache, logger)
	c.SignalUC = usecase.NewSignalUsecase(c.Signals, c.Users)
	c.CategoryUC = usecase.NewCategoryUsecase(c.Categories, c.Cache, logger)
	c.MatchingUC = usecase.NewMatchingUsecase(c.Signals, engine)
	c.ChatUC = usecase.NewChatUsecase(c.Messages, c.Users, c.Hub, logger)

	return c
}

// newScorer falls back to local keyword overlap when no API key is set, so
// matching still works in development.
func newScorer(cfg config.OpenAIConfig, logger *zap.Logger) matching.Scorer {
	if cfg.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, using keyword overlap scorer")
		return matching.OverlapScorer{}
	}
	return llm.NewOpenAIScorer(cfg)
}

// Migrate applies the embedded schema unless DB_MIGRATIONS_DIR points
// elsewhere.
func (c *Container) Migrate(ctx context.Context) error {
	r := migration.Runner{Dir: c.Config.Database.MigrationsDir, FS: migrations.FS, Logger: c.Logger}
	return r.Run(ctx, c.DB.SQLDB())
}

func (c *Container) Seed(ctx context.Context, seeders []seeder.Seeder) error {
	return seeder.Runner{Seeders: seeders}.Run(ctx, c.DB)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Hub != nil {
		c.Hub.Close()
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
