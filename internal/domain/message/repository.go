package message

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("message not found")

type HistoryFilter struct {
	Before *time.Time
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, m Message) (Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)
	// ListBetween returns the newest messages of the a<->b thread, newest first.
	ListBetween(ctx context.Context, a, b uuid.UUID, f HistoryFilter) ([]Message, error)
	MarkRead(ctx context.Context, ids []uuid.UUID) error
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
}
