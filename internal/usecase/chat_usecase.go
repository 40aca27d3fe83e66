package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"signal-radar/internal/domain/message"
	"signal-radar/internal/domain/user"
	"signal-radar/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrCannotMessageSelf  = errors.New("cannot send a message to yourself")
	ErrInvalidMessage     = errors.New("message content must be 1 to 2000 characters")
	ErrNotMessageReceiver = errors.New("only the receiver can mark a message as read")
	ErrInvalidHistoryPage = errors.New("limit must be between 1 and 100")
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	previewLength       = 50
)

// Notifier pushes frames to connected users. Delivery is best effort.
type Notifier interface {
	SendJSON(userID uuid.UUID, v any) bool
	IsOnline(userID uuid.UUID) bool
	OnlineUsers() []uuid.UUID
}

type ConversationView struct {
	PeerID            uuid.UUID `json:"user_id"`
	PeerUsername      string    `json:"username"`
	PeerAvatarURL     *string   `json:"avatar_url"`
	LastMessage       string    `json:"last_message"`
	LastMessageAt     time.Time `json:"last_message_at"`
	LastMessageFromMe bool      `json:"last_message_from_me"`
	UnreadCount       int       `json:"unread_count"`
	IsOnline          bool      `json:"is_online"`
}

type HistoryInput struct {
	Limit  int
	Before *time.Time
}

type ChatUsecase interface {
	Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationView, error)
	History(ctx context.Context, userID, peerID uuid.UUID, in HistoryInput) ([]message.Message, error)
	Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (message.Message, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, messageID uuid.UUID) (message.Message, error)
	Typing(ctx context.Context, senderID uuid.UUID, senderUsername string, receiverID uuid.UUID) error
	OnlineUsers(ctx context.Context) []uuid.UUID
}

type Chat struct {
	messages message.Repository
	users    user.Repository
	notifier Notifier
	logger   *zap.Logger
}

func NewChatUsecase(messages message.Repository, users user.Repository, notifier Notifier, logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chat{messages: messages, users: users, notifier: notifier, logger: logger}
}

func (u *Chat) Conversations(ctx context.Context, userID uuid.UUID) ([]ConversationView, error) {
	convs, err := u.messages.ListConversations(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		out = append(out, ConversationView{
			PeerID:            c.PeerID,
			PeerUsername:      c.PeerUsername,
			PeerAvatarURL:     c.PeerAvatarURL,
			LastMessage:       preview(c.LastMessage.Content),
			LastMessageAt:     c.LastMessage.CreatedAt,
			LastMessageFromMe: c.LastMessage.SenderID == userID,
			UnreadCount:       c.UnreadCount,
			IsOnline:          u.notifier != nil && u.notifier.IsOnline(c.PeerID),
		})
	}
	return out, nil
}

// History returns the thread with peerID in chronological order and marks
// the caller's unread incoming messages in it as read.
func (u *Chat) History(ctx context.Context, userID, peerID uuid.UUID, in HistoryInput) ([]message.Message, error) {
	limit := in.Limit
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if limit < 0 || limit > maxHistoryLimit {
		return nil, ErrInvalidHistoryPage
	}

	if _, err := u.users.GetByID(ctx, peerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInternal
	}

	items, err := u.messages.ListBetween(ctx, userID, peerID, message.HistoryFilter{Before: in.Before, Limit: limit})
	if err != nil {
		return nil, ErrInternal
	}

	unread := make([]uuid.UUID, 0)
	for i := range items {
		if items[i].ReceiverID == userID && !items[i].IsRead {
			unread = append(unread, items[i].ID)
			items[i].IsRead = true
		}
	}
	if len(unread) > 0 {
		if err := u.messages.MarkRead(ctx, unread); err != nil {
			return nil, ErrInternal
		}
	}

	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// Send persists the message and then pushes it to the receiver if they are
// connected. A failed push does not fail the send.
func (u *Chat) Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (message.Message, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > message.MaxContentLength {
		return message.Message{}, ErrInvalidMessage
	}
	if senderID == receiverID {
		return message.Message{}, ErrCannotMessageSelf
	}

	receiver, err := u.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return message.Message{}, ErrReceiverNotFound
		}
		return message.Message{}, ErrInternal
	}
	if !receiver.IsActive {
		return message.Message{}, ErrReceiverNotFound
	}

	msg, err := u.messages.Create(ctx, message.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		return message.Message{}, ErrInternal
	}

	u.push(ctx, msg)
	return msg, nil
}

func (u *Chat) push(ctx context.Context, msg message.Message) {
	if u.notifier == nil {
		return
	}
	if !u.notifier.IsOnline(msg.ReceiverID) {
		observability.ChatDeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}

	var senderName string
	if sender, err := u.users.GetByID(ctx, msg.SenderID); err == nil {
		senderName = sender.Username
	}

	ok := u.notifier.SendJSON(msg.ReceiverID, message.NewMessageEvent{
		Type:           message.TypeNewMessage,
		Message:        msg,
		SenderUsername: senderName,
	})
	if ok {
		observability.ChatDeliveriesTotal.WithLabelValues("delivered").Inc()
		return
	}
	observability.ChatDeliveriesTotal.WithLabelValues("dropped").Inc()
	u.logger.Debug("chat push dropped",
		zap.String("message_id", msg.ID.String()),
		zap.String("receiver_id", msg.ReceiverID.String()),
	)
}

func (u *Chat) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := u.messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

func (u *Chat) MarkRead(ctx context.Context, userID, messageID uuid.UUID) (message.Message, error) {
	msg, err := u.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, message.ErrNotFound) {
			return message.Message{}, ErrMessageNotFound
		}
		return message.Message{}, ErrInternal
	}
	if msg.ReceiverID != userID {
		return message.Message{}, ErrNotMessageReceiver
	}
	if msg.IsRead {
		return msg, nil
	}
	if err := u.messages.MarkRead(ctx, []uuid.UUID{msg.ID}); err != nil {
		return message.Message{}, ErrInternal
	}
	msg.IsRead = true
	return msg, nil
}

// Typing relays a typing indicator. Typing at yourself or at an offline
// user is silently dropped.
func (u *Chat) Typing(_ context.Context, senderID uuid.UUID, senderUsername string, receiverID uuid.UUID) error {
	if receiverID == uuid.Nil {
		return ErrInvalidInput
	}
	if u.notifier == nil || receiverID == senderID {
		return nil
	}
	u.notifier.SendJSON(receiverID, message.TypingEvent{
		Type:     message.TypeTyping,
		UserID:   senderID,
		Username: senderUsername,
	})
	return nil
}

func (u *Chat) OnlineUsers(_ context.Context) []uuid.UUID {
	if u.notifier == nil {
		return []uuid.UUID{}
	}
	return u.notifier.OnlineUsers()
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLength {
		return s
	}
	r := []rune(s)
	return string(r[:previewLength]) + "..."
}
