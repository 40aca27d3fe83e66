package signal

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("signal not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type Repository interface {
	Create(ctx context.Context, s Signal) (Signal, error)
	GetByID(ctx context.Context, id uuid.UUID) (Signal, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Signal, error)
	// ListActiveCandidates returns active signals in the given categories
	// that belong to anyone but excludeUserID, oldest first.
	ListActiveCandidates(ctx context.Context, categoryIDs []int, excludeUserID uuid.UUID) ([]Signal, error)
	Update(ctx context.Context, s Signal) (Signal, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int) (Category, error)
}
