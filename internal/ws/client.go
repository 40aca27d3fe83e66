package ws

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"signal-radar/internal/domain/message"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 16384

	sendBufferSize = 256
	frameTimeout   = 10 * time.Second
)

// MessageService handles the frames a client sends.
type MessageService interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, content string) (message.Message, error)
	Typing(ctx context.Context, senderID uuid.UUID, senderUsername string, receiverID uuid.UUID) error
}

type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// Client is one user's socket. Close is safe to call more than once and
// from any goroutine.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	service  MessageService
	logger   *zap.Logger
	userID   uuid.UUID
	username string

	send   chan []byte
	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, service MessageService, userID uuid.UUID, username string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		hub:      hub,
		conn:     conn,
		service:  service,
		logger:   logger,
		userID:   userID,
		username: username,
		send:     make(chan []byte, sendBufferSize),
	}
}

func (c *Client) UserID() uuid.UUID { return c.userID }

func (c *Client) trySend(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which then closes the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) sendJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.trySend(b)
}

// ReadPump reads frames until the socket fails, then releases the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Release(c)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws read failed", zap.String("user_id", c.userID.String()), zap.Error(err))
			}
			return
		}
		c.handleFrame(data)
	}
}

// WritePump drains the send channel and keeps the connection alive with
// pings. It exits when the channel is closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.Release(c)
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Release(c)
				c.Close()
				return
			}
		}
	}
}

func (c *Client) handleFrame(data []byte) {
	var in inboundFrame
	if err := json.Unmarshal(data, &in); err != nil {
		c.sendError("Invalid JSON")
		return
	}

	switch in.Type {
	case message.TypePing:
		c.sendJSON(message.PongEvent{Type: message.TypePong})

	case message.TypeSendMessage:
		receiverID, err := uuid.Parse(strings.TrimSpace(in.ReceiverID))
		if err != nil {
			c.sendError("Invalid receiver_id")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
		defer cancel()
		msg, err := c.service.Send(ctx, c.userID, receiverID, in.Content)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendJSON(message.MessageSentEvent{Type: message.TypeMessageSent, Message: msg})

	case message.TypeTyping:
		receiverID, err := uuid.Parse(strings.TrimSpace(in.ReceiverID))
		if err != nil {
			c.sendError("Invalid receiver_id")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
		defer cancel()
		if err := c.service.Typing(ctx, c.userID, c.username, receiverID); err != nil {
			c.sendError(err.Error())
		}

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) sendError(msg string) {
	c.sendJSON(message.ErrorEvent{Type: message.TypeError, Message: msg})
}
