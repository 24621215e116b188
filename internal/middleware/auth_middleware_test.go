package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = config.JWTConfig{Secret: "middleware-secret", Issuer: "middleware-test", TTL: time.Hour}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/who", RequireAuth(cfg), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string) + "|" + c.Locals("user_name").(string))
	})
	app.Get("/record", RequireAuth(cfg), RequirePrivilege("ledger:record"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/any", RequireAuth(cfg), RequireAnyPrivilege("transfer:view", "purchase:view"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, header string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireAuth(t *testing.T) {
	app := newApp()
	tok, err := jwt.GenerateToken(cfg, "pos-7", "Till 7", "", nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(t, app, "/who", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, do(t, app, "/who", "Token "+tok).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, do(t, app, "/who", "Bearer nope").StatusCode)

	other := config.JWTConfig{Secret: cfg.Secret, Issuer: "someone-else", TTL: time.Hour}
	foreign, err := jwt.GenerateToken(other, "pos-7", "Till 7", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, app, "/who", "Bearer "+foreign).StatusCode)

	resp := do(t, app, "/who", "Bearer "+tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pos-7|Till 7", string(body))
}

func TestRequirePrivilege(t *testing.T) {
	app := newApp()
	with, err := jwt.GenerateToken(cfg, "a", "A", "", []string{"ledger:record"})
	require.NoError(t, err)
	without, err := jwt.GenerateToken(cfg, "b", "B", "", []string{"stock:view"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(t, app, "/record", "Bearer "+with).StatusCode)
	assert.Equal(t, http.StatusForbidden, do(t, app, "/record", "Bearer "+without).StatusCode)
}

func TestRequireAnyPrivilege(t *testing.T) {
	app := newApp()
	purchaser, err := jwt.GenerateToken(cfg, "a", "A", "", []string{"purchase:view"})
	require.NoError(t, err)
	seller, err := jwt.GenerateToken(cfg, "b", "B", "", []string{"ledger:record"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(t, app, "/any", "Bearer "+purchaser).StatusCode)
	assert.Equal(t, http.StatusForbidden, do(t, app, "/any", "Bearer "+seller).StatusCode)
}
