package ws

import (
	"context"
	"net/http"
	"time"

	"signal-radar/internal/domain/user"
	"signal-radar/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// CloseInvalidToken is sent when the token query parameter is missing or
// does not validate.
const CloseInvalidToken = 4001

// UserLookup resolves the token subject to a live account.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type Handler struct {
	hub     *Hub
	jwt     jwt.Service
	users   UserLookup
	service MessageService
	logger  *zap.Logger
}

func NewHandler(hub *Hub, jwtSvc jwt.Service, users UserLookup, service MessageService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, jwt: jwtSvc, users: users, service: service, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/ws", h.HandleChatWS)
}

// HandleChatWS upgrades first and authenticates second, so a bad token is
// reported with a close code the client can read.
func (h *Handler) HandleChatWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	token := c.Query("token")

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		userID, username, ok := h.authenticate(r.Context(), token)
		if !ok {
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(CloseInvalidToken, "Invalid token"),
				time.Now().Add(writeWait),
			)
			_ = conn.Close()
			return
		}

		client := NewClient(h.hub, conn, h.service, userID, username, h.logger)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

func (h *Handler) authenticate(ctx context.Context, token string) (uuid.UUID, string, bool) {
	if token == "" || h.jwt == nil {
		return uuid.Nil, "", false
	}
	claims, err := h.jwt.Validate(token)
	if err != nil {
		return uuid.Nil, "", false
	}
	username := claims.Username
	if h.users != nil {
		u, err := h.users.GetByID(ctx, claims.UserID)
		if err != nil || !u.IsActive {
			return uuid.Nil, "", false
		}
		username = u.Username
	}
	return claims.UserID, username, true
}
