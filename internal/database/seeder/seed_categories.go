package seeder

import (
	"context"
	"fmt"

	"signal-radar/internal/database"
	"signal-radar/internal/domain/signal"
)

type CategoriesSeeder struct{}

func (CategoriesSeeder) Name() string { return "signal_categories" }

func (CategoriesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "signal_categories", "id", "name", "label"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, c := range signal.Categories {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO signal_categories (id, name, label) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			c.ID,
			c.Name,
			c.Label,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
