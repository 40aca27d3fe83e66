package repository

import (
	"context"
	"encoding/json"

	"signal-radar/internal/database"
	"signal-radar/internal/domain/signal"

	"github.com/google/uuid"
)

const signalColumns = `id, user_id, signal_category_id, details, is_active, created_at`

type PostgresSignalRepository struct {
	db database.DB
}

func NewPostgresSignalRepository(db database.DB) *PostgresSignalRepository {
	return &PostgresSignalRepository{db: db}
}

func (r *PostgresSignalRepository) Create(ctx context.Context, s signal.Signal) (signal.Signal, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return scanSignal(r.db.QueryRow(ctx,
		`INSERT INTO signals (id, user_id, signal_category_id, details, is_active)
		 VALUES ($1, $2, $3, $4::jsonb, $5)
		 RETURNING `+signalColumns,
		s.ID, s.UserID, s.CategoryID, nullableJSON(s.Details), s.IsActive,
	))
}

func (r *PostgresSignalRepository) GetByID(ctx context.Context, id uuid.UUID) (signal.Signal, error) {
	return scanSignal(r.db.QueryRow(ctx, `SELECT `+signalColumns+` FROM signals WHERE id = $1`, id))
}

func (r *PostgresSignalRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+signalColumns+`
		 FROM signals
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectSignals(rows)
}

func (r *PostgresSignalRepository) ListActiveCandidates(ctx context.Context, categoryIDs []int, excludeUserID uuid.UUID) ([]signal.Signal, error) {
	if len(categoryIDs) == 0 {
		return []signal.Signal{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+signalColumns+`
		 FROM signals
		 WHERE is_active
		   AND signal_category_id = ANY($1)
		   AND user_id <> $2
		 ORDER BY created_at ASC, id`,
		categoryIDs, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	return collectSignals(rows)
}

func (r *PostgresSignalRepository) Update(ctx context.Context, s signal.Signal) (signal.Signal, error) {
	return scanSignal(r.db.QueryRow(ctx,
		`UPDATE signals SET details = $2::jsonb, is_active = $3
		 WHERE id = $1
		 RETURNING `+signalColumns,
		s.ID, nullableJSON(s.Details), s.IsActive,
	))
}

func collectSignals(rows database.Rows) ([]signal.Signal, error) {
	defer rows.Close()

	out := make([]signal.Signal, 0)
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanSignal(row database.Row) (signal.Signal, error) {
	var (
		s       signal.Signal
		cat     int16
		details []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &cat, &details, &s.IsActive, &s.CreatedAt); err != nil {
		if isNoRows(err) {
			return signal.Signal{}, signal.ErrNotFound
		}
		return signal.Signal{}, err
	}
	s.CategoryID = int(cat)
	if len(details) > 0 {
		s.Details = json.RawMessage(details)
	}
	return s, nil
}

func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
