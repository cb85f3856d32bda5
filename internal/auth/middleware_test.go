package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Get("/protected", Middleware(svc), func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "no user bound")
		}
		return c.SendString(userID)
	})
	return app
}

func TestMiddlewareMissingHeader(t *testing.T) {
	app := newProtectedApp(NewService("test-secret", time.Hour))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareMalformedHeader(t *testing.T) {
	app := newProtectedApp(NewService("test-secret", time.Hour))

	for _, header := range []string{"Token abc", "Bearer", "abc"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	app := newProtectedApp(NewService("test-secret", time.Hour))

	foreign, err := NewService("other-secret", time.Hour).Generate("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareValidTokenBindsUser(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	app := newProtectedApp(svc)

	token, err := svc.Generate("user-123")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "user-123", string(body[:n]))
}
