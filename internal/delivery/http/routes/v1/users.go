package v1

import (
	"signal-radar/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterUsers(r fiber.Router, userHandler *handler.UserHandler, protect fiber.Handler) {
	if r == nil || userHandler == nil {
		return
	}

	userHandler.RegisterRoutes(group(r, "/users", protect))
}

func RegisterSignals(r fiber.Router, signalHandler *handler.SignalHandler, protect fiber.Handler) {
	if r == nil || signalHandler == nil {
		return
	}

	signalHandler.RegisterRoutes(group(r, "/signals", protect))
}
