package usecase

import "github.com/google/uuid"

const categoriesCacheKey = "categories:all"

func userProfileCacheKey(id uuid.UUID) string {
	return "users:profile:" + id.String()
}
