package middlewares

import (
	"errors"
	"log"

	"smsburst-backend/deploy"
	"smsburst-backend/ledger"
	"smsburst-backend/ratelimit"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Classification relies on the typed errors produced at each failure site;
// error text is never inspected.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	// 2) Validation errors (400 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": out,
		})
	}

	// 3) Insufficient credits (402 with required/available echoed)
	var ice *ledger.InsufficientCreditsError
	if errors.As(err, &ice) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":     "Insufficient credits",
			"required":  ice.Required,
			"available": ice.Available,
			"upgrade":   true,
		})
	}

	// 4) Rate limited (429)
	var le *ratelimit.LimitError
	if errors.As(err, &le) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Rate limit exceeded",
			"limit": le.Limit,
		})
	}

	// 5) External deploy failure (compensation already ran by this point)
	var ae *deploy.APIError
	if errors.As(err, &ae) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Deployment failed. Credits refunded.",
		})
	}

	// 6) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
