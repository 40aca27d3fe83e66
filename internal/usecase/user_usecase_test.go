package usecase

import (
	"context"
	"testing"

	ucuser "signal-radar/internal/usecase/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUsecase_ProfileCacheAndInvalidation(t *testing.T) {
	alice := activeUser("alice")
	users := newMemUsers(alice)
	cache := newMemCache()
	uc := NewUserUsecase(users, cache, nil)
	ctx := context.Background()

	got, err := uc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Contains(t, cache.data, userProfileCacheKey(alice.ID))

	// served from cache even if the store changes underneath
	stale := users.items[alice.ID]
	stale.Username = "stale"
	users.items[alice.ID] = stale
	got, err = uc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	name := "alice2"
	_, err = uc.UpdateMe(ctx, alice.ID, ucuser.UpdateInput{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, []string{userProfileCacheKey(alice.ID)}, cache.deletes)

	got, err = uc.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)

	require.NoError(t, uc.DeleteMe(ctx, alice.ID))
	_, err = uc.GetProfile(ctx, alice.ID)
	assert.ErrorIs(t, err, ucuser.ErrNotFound)
}

func TestCategoryUsecase_CachesList(t *testing.T) {
	repo := &staticCategories{}
	uc := NewCategoryUsecase(repo, newMemCache(), nil)
	ctx := context.Background()

	first, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	second, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	c, err := uc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "STARTUP_IDEA", c.Name)
	_, err = uc.Get(ctx, 9)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
