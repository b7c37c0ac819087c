package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/coursebay/coursebay/internal/pkg/env"
	"github.com/coursebay/coursebay/internal/pkg/identity"
	"github.com/coursebay/coursebay/internal/pkg/usercontext"
)

// RequireUser authenticates requests carrying an identity-provider session
// token and injects the resolved user id into the request context. Webhook
// routes never pass through here; they authenticate via payload signatures.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing session token"})
		}

		userID, err := identity.VerifySessionToken(token, env.GetEnv("IDENTITY_JWT_SECRET", ""))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid or expired session token"})
		}

		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID:     userID,
			IsLoggedIn: true,
		})
		c.Locals(usercontext.KeyUserID, userID)

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
