package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"signal-radar/internal/domain/message"
	"signal-radar/internal/domain/signal"
	"signal-radar/internal/domain/user"

	"github.com/google/uuid"
)

type memUsers struct {
	mu    sync.Mutex
	items map[uuid.UUID]user.User
	err   error
}

func newMemUsers(us ...user.User) *memUsers {
	m := &memUsers{items: map[uuid.UUID]user.User{}}
	for _, u := range us {
		m.items[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[u.ID] = u
	return m.err
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, name string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Username == name {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) ExistsByUsername(_ context.Context, name string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Username == name && u.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Email != nil && *u.Email == email && u.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Update(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.items[u.ID] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return user.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memUsers) List(_ context.Context, f user.ListFilter) ([]user.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]user.User, 0, len(m.items))
	for _, u := range m.items {
		out = append(out, u)
	}
	return out, len(out), nil
}

type memSignals struct {
	mu    sync.Mutex
	items []signal.Signal
	err   error
}

func (m *memSignals) Create(_ context.Context, s signal.Signal) (signal.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return signal.Signal{}, m.err
	}
	s.CreatedAt = time.Now()
	m.items = append(m.items, s)
	return s, nil
}

func (m *memSignals) GetByID(_ context.Context, id uuid.UUID) (signal.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.ID == id {
			return s, nil
		}
	}
	return signal.Signal{}, signal.ErrNotFound
}

func (m *memSignals) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]signal.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []signal.Signal{}
	for _, s := range m.items {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSignals) ListActiveCandidates(_ context.Context, cats []int, exclude uuid.UUID) ([]signal.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	allowed := map[int]bool{}
	for _, c := range cats {
		allowed[c] = true
	}
	out := []signal.Signal{}
	for _, s := range m.items {
		if s.IsActive && s.UserID != exclude && allowed[s.CategoryID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSignals) Update(_ context.Context, s signal.Signal) (signal.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == s.ID {
			m.items[i] = s
			return s, nil
		}
	}
	return signal.Signal{}, signal.ErrNotFound
}

func (m *memSignals) add(userID uuid.UUID, cat int, details string) signal.Signal {
	s := signal.Signal{ID: uuid.New(), UserID: userID, CategoryID: cat, Details: json.RawMessage(details), IsActive: true}
	m.items = append(m.items, s)
	return s
}

type memMessages struct {
	mu    sync.Mutex
	items []message.Message
	users *memUsers
	clock time.Time
}

func (m *memMessages) Create(_ context.Context, msg message.Message) (message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	msg.CreatedAt = m.clock
	m.items = append(m.items, msg)
	return msg, nil
}

func (m *memMessages) GetByID(_ context.Context, id uuid.UUID) (message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.items {
		if msg.ID == id {
			return msg, nil
		}
	}
	return message.Message{}, message.ErrNotFound
}

func (m *memMessages) ListBetween(_ context.Context, a, b uuid.UUID, f message.HistoryFilter) ([]message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []message.Message{}
	for i := len(m.items) - 1; i >= 0; i-- {
		msg := m.items[i]
		pair := (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a)
		if !pair || (f.Before != nil && !msg.CreatedAt.Before(*f.Before)) {
			continue
		}
		out = append(out, msg)
		if len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (m *memMessages) MarkRead(_ context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[uuid.UUID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	for i := range m.items {
		if set[m.items[i].ID] {
			m.items[i].IsRead = true
		}
	}
	return nil
}

func (m *memMessages) CountUnread(_ context.Context, receiverID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.items {
		if msg.ReceiverID == receiverID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memMessages) ListConversations(_ context.Context, userID uuid.UUID) ([]message.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byPeer := map[uuid.UUID]*message.Conversation{}
	for _, msg := range m.items {
		var peer uuid.UUID
		switch userID {
		case msg.SenderID:
			peer = msg.ReceiverID
		case msg.ReceiverID:
			peer = msg.SenderID
		default:
			continue
		}
		c, ok := byPeer[peer]
		if !ok {
			c = &message.Conversation{PeerID: peer}
			if u, ok := m.users.items[peer]; ok {
				c.PeerUsername = u.Username
			}
			byPeer[peer] = c
		}
		c.LastMessage = msg
		if msg.SenderID == peer && !msg.IsRead {
			c.UnreadCount++
		}
	}
	out := make([]message.Conversation, 0, len(byPeer))
	for _, c := range byPeer {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt) })
	return out, nil
}

type sentFrame struct {
	to uuid.UUID
	v  any
}

type fakeNotifier struct {
	mu     sync.Mutex
	online map[uuid.UUID]bool
	sent   []sentFrame
}

func (f *fakeNotifier) SendJSON(userID uuid.UUID, v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online[userID] {
		return false
	}
	f.sent = append(f.sent, sentFrame{to: userID, v: v})
	return true
}

func (f *fakeNotifier) IsOnline(userID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[userID]
}

func (f *fakeNotifier) OnlineUsers() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []uuid.UUID{}
	for id, ok := range f.online {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

type memCache struct {
	data    map[string][]byte
	gets    int
	deletes []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.deletes = append(c.deletes, key)
	delete(c.data, key)
	return nil
}

type staticCategories struct {
	calls int
}

func (s *staticCategories) List(context.Context) ([]signal.Category, error) {
	s.calls++
	return signal.Categories, nil
}

func (s *staticCategories) GetByID(_ context.Context, id int) (signal.Category, error) {
	for _, c := range signal.Categories {
		if c.ID == id {
			return c, nil
		}
	}
	return signal.Category{}, signal.ErrCategoryNotFound
}

func activeUser(name string) user.User {
	return user.User{ID: uuid.New(), Username: name, IsActive: true, Profile: user.Profile{Skills: []string{}}}
}
