package repository

import (
	"context"

	"signal-radar/internal/database"
	"signal-radar/internal/domain/message"

	"github.com/google/uuid"
)

const messageColumns = `id, sender_id, receiver_id, content, is_read, created_at`

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m message.Message) (message.Message, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return scanMessage(r.db.QueryRow(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+messageColumns,
		m.ID, m.SenderID, m.ReceiverID, m.Content,
	))
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

func (r *PostgresMessageRepository) ListBetween(ctx context.Context, a, b uuid.UUID, f message.HistoryFilter) ([]message.Message, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+messageColumns+`
		 FROM messages
		 WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		   AND ($3::timestamptz IS NULL OR created_at < $3)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $4`,
		a, b, f.Before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) MarkRead(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE id = ANY($1) AND NOT is_read`, ids)
	return err
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, receiverID).Scan(&n)
	return n, err
}

// ListConversations returns one row per peer with the latest message in
// that thread, most recent thread first.
func (r *PostgresMessageRepository) ListConversations(ctx context.Context, userID uuid.UUID) ([]message.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`WITH latest AS (
			SELECT DISTINCT ON (peer_id) peer_id, id, sender_id, receiver_id, content, is_read, created_at
			FROM (
				SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS peer_id
				FROM messages m
				WHERE m.sender_id = $1 OR m.receiver_id = $1
			) thread
			ORDER BY peer_id, created_at DESC, id DESC
		)
		SELECT l.peer_id, u.username, u.avatar_url,
			l.id, l.sender_id, l.receiver_id, l.content, l.is_read, l.created_at,
			(SELECT count(*) FROM messages x WHERE x.sender_id = l.peer_id AND x.receiver_id = $1 AND NOT x.is_read)
		FROM latest l
		JOIN users u ON u.id = l.peer_id
		ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]message.Conversation, 0)
	for rows.Next() {
		var c message.Conversation
		m := &c.LastMessage
		if err := rows.Scan(
			&c.PeerID, &c.PeerUsername, &c.PeerAvatarURL,
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt,
			&c.UnreadCount,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanMessage(row database.Row) (message.Message, error) {
	var m message.Message
	if err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
		if isNoRows(err) {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}
