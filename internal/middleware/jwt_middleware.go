package middleware

import (
	"context"
	"errors"
	"strings"

	"alliedparts/internal/logger"
	"alliedparts/internal/models"
	"alliedparts/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// UIDKey is the fiber Locals key holding the authenticated uid.
const UIDKey = "uid"

// TokenVerifier decodes a bearer token into a uid.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RoleLookup loads the stored role of a user.
type RoleLookup interface {
	Role(ctx context.Context, uid string) (models.Role, error)
}

// RequireAuthenticated rejects requests without a verifiable bearer token.
func RequireAuthenticated(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized Access",
			})
		}

		// Expected format: "Bearer <token>"; anything else fails verification.
		token := ""
		if parts := strings.Fields(authHeader); len(parts) >= 2 {
			token = parts[1]
		}

		uid, err := verifier.VerifyToken(token)
		if err != nil {
			logger.Debugf("Token verification failed: %v", err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden Access",
			})
		}

		c.Locals(UIDKey, uid)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuthenticated. It rejects callers whose
// stored role does not satisfy models.PolicyAdmin.
func RequireAdmin(roles RoleLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := CurrentUID(c)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized Access",
			})
		}

		role, err := roles.Role(c.UserContext(), uid)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if err != nil || !models.Authorize(models.PolicyAdmin, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden Access",
			})
		}
		return c.Next()
	}
}

// CurrentUID returns the uid stored by RequireAuthenticated, or "".
func CurrentUID(c *fiber.Ctx) string {
	uid, _ := c.Locals(UIDKey).(string)
	return uid
}
