package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"signal-radar/internal/domain/message"
	"signal-radar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatUC struct {
	gotHistory usecase.HistoryInput
	sent       []message.Message
	sendErr    error
	markErr    error
	online     []uuid.UUID
}

func (f *fakeChatUC) Conversations(context.Context, uuid.UUID) ([]usecase.ConversationView, error) {
	return nil, nil
}

func (f *fakeChatUC) History(_ context.Context, _, _ uuid.UUID, in usecase.HistoryInput) ([]message.Message, error) {
	f.gotHistory = in
	if in.Limit > 100 {
		return nil, usecase.ErrInvalidHistoryPage
	}
	return []message.Message{}, nil
}

func (f *fakeChatUC) Send(_ context.Context, senderID, receiverID uuid.UUID, content string) (message.Message, error) {
	if f.sendErr != nil {
		return message.Message{}, f.sendErr
	}
	m := message.Message{ID: uuid.New(), SenderID: senderID, ReceiverID: receiverID, Content: content, CreatedAt: time.Now()}
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeChatUC) UnreadCount(context.Context, uuid.UUID) (int, error) { return 3, nil }

func (f *fakeChatUC) MarkRead(_ context.Context, _, id uuid.UUID) (message.Message, error) {
	if f.markErr != nil {
		return message.Message{}, f.markErr
	}
	return message.Message{ID: id, IsRead: true}, nil
}

func (f *fakeChatUC) Typing(context.Context, uuid.UUID, string, uuid.UUID) error { return nil }

func (f *fakeChatUC) OnlineUsers(context.Context) []uuid.UUID { return f.online }

func newChatEnv(t *testing.T) (*testEnv, *fakeChatUC, string) {
	t.Helper()
	env := newTestEnv()
	chat := &fakeChatUC{}
	NewChatHandler(chat).RegisterRoutes(env.app.Group("/chat", env.protect))
	_, token := env.login(t, "alice")
	return env, chat, token
}

func TestChatHandler_Send(t *testing.T) {
	env, chat, token := newChatEnv(t)
	peer := uuid.New()

	resp, body := env.do(t, http.MethodPost, "/chat/messages", token, `{"receiver_id":"`+peer.String()+`","content":"hi"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, chat.sent, 1)

	var got message.Message
	require.NoError(t, json.Unmarshal(body.Data, &got))
	assert.Equal(t, peer, got.ReceiverID)

	resp, _ = env.do(t, http.MethodPost, "/chat/messages", token, `{"receiver_id":"bad","content":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for err, status := range map[error]int{
		usecase.ErrCannotMessageSelf: http.StatusBadRequest,
		usecase.ErrInvalidMessage:    http.StatusBadRequest,
		usecase.ErrReceiverNotFound:  http.StatusNotFound,
		errors.New("db down"):        http.StatusInternalServerError,
	} {
		chat.sendErr = err
		resp, body = env.do(t, http.MethodPost, "/chat/messages", token, `{"receiver_id":"`+peer.String()+`","content":"hi"}`)
		assert.Equal(t, status, resp.StatusCode, err.Error())
		if status == http.StatusInternalServerError {
			assert.NotContains(t, body.Message, "db down")
		}
	}
}

func TestChatHandler_History(t *testing.T) {
	env, chat, token := newChatEnv(t)
	peer := uuid.NewString()

	resp, body := env.do(t, http.MethodGet, "/chat/messages/"+peer+"?limit=10&before=2024-05-01T10:00:00Z", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body.Data))
	assert.Equal(t, 10, chat.gotHistory.Limit)
	require.NotNil(t, chat.gotHistory.Before)
	assert.True(t, chat.gotHistory.Before.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	resp, _ = env.do(t, http.MethodGet, "/chat/messages/"+peer+"?before=yesterday", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/chat/messages/"+peer+"?limit=500", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/chat/messages/nope", token, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatHandler_ReadStateAndPresence(t *testing.T) {
	env, chat, token := newChatEnv(t)
	online := uuid.New()
	chat.online = []uuid.UUID{online}

	resp, body := env.do(t, http.MethodGet, "/chat/unread-count", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"unread_count":3}`, string(body.Data))

	resp, body = env.do(t, http.MethodGet, "/chat/online", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"online_users":["`+online.String()+`"]}`, string(body.Data))

	resp, body = env.do(t, http.MethodGet, "/chat/conversations", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body.Data))

	resp, _ = env.do(t, http.MethodPost, "/chat/messages/"+uuid.NewString()+"/read", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	chat.markErr = usecase.ErrNotMessageReceiver
	resp, _ = env.do(t, http.MethodPost, "/chat/messages/"+uuid.NewString()+"/read", token, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
