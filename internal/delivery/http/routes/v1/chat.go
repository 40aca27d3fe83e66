package v1

import (
	"signal-radar/internal/delivery/http/handler"
	"signal-radar/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// RegisterChat mounts the socket endpoint before the bearer-protected REST
// group; the socket authenticates through its token query parameter.
func RegisterChat(r fiber.Router, chatHandler *handler.ChatHandler, wsHandler *ws.Handler, protect fiber.Handler) {
	if r == nil {
		return
	}

	if wsHandler != nil {
		wsHandler.RegisterRoutes(r.Group("/chat"))
	}
	if chatHandler != nil {
		chatHandler.RegisterRoutes(group(r, "/chat", protect))
	}
}
