package middleware

import (
	"context"
	"errors"
	"strings"

	"signal-radar/internal/domain/user"
	"signal-radar/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
)

// UserLookup resolves the token subject so deleted and deactivated
// accounts are rejected while their tokens are still unexpired.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type AuthMiddleware struct {
	jwt   jwt.Service
	users UserLookup
}

func NewAuthMiddleware(jwtSvc jwt.Service, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Not authenticated", nil, nil)
		}

		claims, err := m.jwt.Validate(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Could not validate credentials", nil, err)
		}

		username := claims.Username
		if m.users != nil {
			u, err := m.users.GetByID(c.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return NewAppError(fiber.StatusUnauthorized, "Could not validate credentials", nil, err)
				}
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
			if !u.IsActive {
				return NewAppError(fiber.StatusForbidden, "Inactive user", nil, nil)
			}
			username = u.Username
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, username)

		return c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func Username(c fiber.Ctx) string {
	name, _ := c.Locals(CtxUsernameKey).(string)
	return name
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
