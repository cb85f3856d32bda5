package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "user_id"

// Middleware extracts the Bearer token from the Authorization header,
// verifies it and binds the user id into the request locals. Handlers trust
// the id; the user record is not re-fetched.
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization token missing")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization token missing")
		}

		userID, err := svc.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(localsUserKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id bound by Middleware.
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(localsUserKey).(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", false
	}
	return userID, true
}
