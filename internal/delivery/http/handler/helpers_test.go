package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signal-radar/internal/delivery/http/middleware"
	"signal-radar/internal/domain/user"
	"signal-radar/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type lookupUsers map[uuid.UUID]user.User

func (l lookupUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := l[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type testEnv struct {
	app     *fiber.App
	jwt     *jwt.HMACService
	users   lookupUsers
	protect fiber.Handler
}

func newTestEnv() *testEnv {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	svc := jwt.NewHMACService("handler-test-secret", time.Hour)
	users := lookupUsers{}
	return &testEnv{
		app:     app,
		jwt:     svc,
		users:   users,
		protect: middleware.NewAuthMiddleware(svc, users).Middleware(),
	}
}

// login registers an active account with the auth lookup and returns a
// bearer token for it.
func (e *testEnv) login(t *testing.T, username string) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	e.users[id] = user.User{ID: id, Username: username, IsActive: true}
	token, err := e.jwt.Issue(id, username)
	require.NoError(t, err)
	return id, token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}
