package handler

import (
	"errors"
	"time"

	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/domain/message"
	"signal-radar/internal/pkg/response"
	"signal-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ChatHandler struct {
	uc usecase.ChatUsecase
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/conversations", h.Conversations)
	r.Get("/messages/:user_id", h.History)
	r.Post("/messages", h.Send)
	r.Post("/messages/:id/read", h.MarkRead)
	r.Get("/unread-count", h.UnreadCount)
	r.Get("/online", h.Online)
}

func (h *ChatHandler) Conversations(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	items, err := h.uc.Conversations(c.Context(), userID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	if items == nil {
		items = []usecase.ConversationView{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *ChatHandler) History(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	peerID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}

	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	in := usecase.HistoryInput{Limit: limit}
	if raw := c.Query("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "before must be an RFC3339 timestamp", nil, err)
		}
		in.Before = &before
	}

	items, err := h.uc.History(c.Context(), userID, peerID, in)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	if items == nil {
		items = []message.Message{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *ChatHandler) Send(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid receiver_id", nil, err)
	}

	msg, err := h.uc.Send(c.Context(), userID, receiverID, req.Content)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Message sent", msg)
}

func (h *ChatHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid message id", nil, err)
	}

	msg, err := h.uc.MarkRead(c.Context(), userID, id)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, msg)
}

func (h *ChatHandler) UnreadCount(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
	}

	n, err := h.uc.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"unread_count": n})
}

func (h *ChatHandler) Online(c fiber.Ctx) error {
	ids := h.uc.OnlineUsers(c.Context())
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"online_users": ids})
}

func mapChatUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrReceiverNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Receiver not found", nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrMessageNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Message not found", nil, err)
	case errors.Is(err, usecase.ErrNotMessageReceiver):
		return middleware.NewAppError(fiber.StatusForbidden, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrCannotMessageSelf),
		errors.Is(err, usecase.ErrInvalidMessage),
		errors.Is(err, usecase.ErrInvalidHistoryPage),
		errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
