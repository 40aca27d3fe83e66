package usecase

import (
	"context"
	"time"

	"signal-radar/internal/domain/user"
	ucuser "signal-radar/internal/usecase/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userProfileCacheTTL = 5 * time.Minute

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateInput) (user.User, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, in ucuser.ListInput) ([]user.User, int, error)
}

type User struct {
	svc    *ucuser.Service
	cache  Cache
	logger *zap.Logger
}

func NewUserUsecase(users user.Repository, cache Cache, logger *zap.Logger) *User {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &User{svc: ucuser.NewService(users), cache: cache, logger: logger}
}

func (u *User) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return u.svc.GetByID(ctx, userID)
}

// GetProfile serves public profile reads through the cache.
func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	key := userProfileCacheKey(userID)
	if u.cache != nil {
		var cached user.User
		ok, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Debug("profile cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			return cached, nil
		}
	}

	usr, err := u.svc.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsActive {
		return user.User{}, ucuser.ErrNotFound
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, usr, userProfileCacheTTL); err != nil {
			u.logger.Debug("profile cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return usr, nil
}

func (u *User) UpdateMe(ctx context.Context, userID uuid.UUID, in ucuser.UpdateInput) (user.User, error) {
	usr, err := u.svc.Update(ctx, userID, in)
	if err != nil {
		return user.User{}, err
	}
	u.invalidate(ctx, userID)
	return usr, nil
}

func (u *User) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	if err := u.svc.Delete(ctx, userID); err != nil {
		return err
	}
	u.invalidate(ctx, userID)
	return nil
}

func (u *User) List(ctx context.Context, in ucuser.ListInput) ([]user.User, int, error) {
	return u.svc.List(ctx, in)
}

func (u *User) invalidate(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, userProfileCacheKey(userID)); err != nil {
		u.logger.Warn("profile cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
