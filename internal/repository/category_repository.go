package repository

import (
	"context"

	"signal-radar/internal/database"
	"signal-radar/internal/domain/signal"
)

type PostgresCategoryRepository struct {
	db database.DB
}

func NewPostgresCategoryRepository(db database.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]signal.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, label FROM signal_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]signal.Category, 0, len(signal.Categories))
	for rows.Next() {
		var (
			c  signal.Category
			id int16
		)
		if err := rows.Scan(&id, &c.Name, &c.Label); err != nil {
			return nil, err
		}
		c.ID = int(id)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int) (signal.Category, error) {
	var (
		c   signal.Category
		cid int16
	)
	err := r.db.QueryRow(ctx, `SELECT id, name, label FROM signal_categories WHERE id = $1`, id).Scan(&cid, &c.Name, &c.Label)
	if err != nil {
		if isNoRows(err) {
			return signal.Category{}, signal.ErrCategoryNotFound
		}
		return signal.Category{}, err
	}
	c.ID = int(cid)
	return c, nil
}
