package usecase

import (
	"context"
	"errors"
	"time"

	"signal-radar/internal/domain/signal"

	"go.uber.org/zap"
)

var ErrCategoryNotFound = errors.New("category not found")

const categoriesCacheTTL = time.Hour

type CategoryUsecase interface {
	List(ctx context.Context) ([]signal.Category, error)
	Get(ctx context.Context, id int) (signal.Category, error)
}

type Category struct {
	repo   signal.CategoryRepository
	cache  Cache
	logger *zap.Logger
}

func NewCategoryUsecase(repo signal.CategoryRepository, cache Cache, logger *zap.Logger) *Category {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Category{repo: repo, cache: cache, logger: logger}
}

func (u *Category) List(ctx context.Context) ([]signal.Category, error) {
	if u.cache != nil {
		var cached []signal.Category
		ok, err := u.cache.GetJSON(ctx, categoriesCacheKey, &cached)
		if err != nil {
			u.logger.Debug("category cache read failed", zap.Error(err))
		}
		if ok && len(cached) > 0 {
			return cached, nil
		}
	}

	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil && len(items) > 0 {
		if err := u.cache.SetJSON(ctx, categoriesCacheKey, items, categoriesCacheTTL); err != nil {
			u.logger.Debug("category cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func (u *Category) Get(ctx context.Context, id int) (signal.Category, error) {
	if !signal.ValidCategory(id) {
		return signal.Category{}, ErrCategoryNotFound
	}
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, signal.ErrCategoryNotFound) {
			return signal.Category{}, ErrCategoryNotFound
		}
		return signal.Category{}, ErrInternal
	}
	return c, nil
}
