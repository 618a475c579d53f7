package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"alliedparts/internal/middleware"
	"alliedparts/internal/models"
	"alliedparts/internal/repositories"
	"alliedparts/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoles map[string]models.Role

func (s stubRoles) Role(_ context.Context, uid string) (models.Role, error) {
	if uid == "broken" {
		return "", errors.New("store unavailable")
	}
	role, ok := s[uid]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return role, nil
}

func setupApp(auth *services.AuthService) *fiber.App {
	app := fiber.New()
	roles := stubRoles{"admin": models.RoleAdmin, "plain": models.RoleUser}

	app.Get("/me", middleware.RequireAuthenticated(auth), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUID(c))
	})
	app.Get("/admin-only", middleware.RequireAuthenticated(auth), middleware.RequireAdmin(roles), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/no-auth-admin", middleware.RequireAdmin(roles), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func messageOf(t *testing.T, body string) string {
	t.Helper()
	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))
	return parsed["message"]
}

func TestRequireAuthenticated(t *testing.T) {
	auth := services.NewAuthService("middleware_secret", 0)
	app := setupApp(auth)
	token, err := auth.IssueToken("u1")
	require.NoError(t, err)

	status, body := doRequest(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized Access", messageOf(t, body))

	status, body = doRequest(t, app, "/me", "Bearer garbage")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden Access", messageOf(t, body))

	status, _ = doRequest(t, app, "/me", "Bearer")
	assert.Equal(t, fiber.StatusForbidden, status)

	other, err := services.NewAuthService("other_secret", 0).IssueToken("u1")
	require.NoError(t, err)
	status, _ = doRequest(t, app, "/me", "Bearer "+other)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u1", body)
}

func TestRequireAdmin(t *testing.T) {
	auth := services.NewAuthService("middleware_secret", 0)
	app := setupApp(auth)

	bearer := func(uid string) string {
		token, err := auth.IssueToken(uid)
		require.NoError(t, err)
		return "Bearer " + token
	}

	status, body := doRequest(t, app, "/admin-only", bearer("admin"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, body = doRequest(t, app, "/admin-only", bearer("plain"))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden Access", messageOf(t, body))

	status, _ = doRequest(t, app, "/admin-only", bearer("ghost"))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, "/admin-only", bearer("broken"))
	assert.Equal(t, fiber.StatusInternalServerError, status)

	status, _ = doRequest(t, app, "/admin-only", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = doRequest(t, app, "/no-auth-admin", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
