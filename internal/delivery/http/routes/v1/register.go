package v1

import (
	"signal-radar/internal/delivery/http/handler"
	"signal-radar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Signal   *handler.SignalHandler
	Category *handler.CategoryHandler
	Chat     *handler.ChatHandler
	ChatWS   *ws.Handler
}

func Register(r fiber.Router, h Handlers, protect fiber.Handler) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), protect)
	}
	if h.Category != nil {
		h.Category.RegisterRoutes(r.Group("/categories"))
	}
	RegisterUsers(r, h.User, protect)
	RegisterSignals(r, h.Signal, protect)
	RegisterChat(r, h.Chat, h.ChatWS, protect)
}

func group(r fiber.Router, prefix string, mw fiber.Handler) fiber.Router {
	if mw == nil {
		return r.Group(prefix)
	}
	return r.Group(prefix, mw)
}
