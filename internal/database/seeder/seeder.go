package seeder

import (
	"context"

	"signal-radar/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
