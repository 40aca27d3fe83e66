package message

import (
	"time"

	"github.com/google/uuid"
)

const MaxContentLength = 2000

type Message struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is the latest message exchanged with one peer plus the
// number of unread messages that peer sent.
type Conversation struct {
	PeerID        uuid.UUID
	PeerUsername  string
	PeerAvatarURL *string
	LastMessage   Message
	UnreadCount   int
}
