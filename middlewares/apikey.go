package middlewares

import (
	"smsburst-backend/auth"

	"github.com/gofiber/fiber/v2"
)

const apiKeyHeader = "X-API-Key"

// RequireAPIKey validates the X-API-Key header against the key store for the
// given role. Unknown, inactive and under-privileged keys all produce the
// same 403; rate-limited keys surface as 429 via the error handler.
func RequireAPIKey(keys *auth.KeyStore, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(apiKeyHeader)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API key"})
		}
		info, err := keys.Validate(raw, role)
		if err != nil {
			return err
		}
		if info == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid or unauthorized API key"})
		}
		c.Locals("apiKey", info)
		return c.Next()
	}
}
