package middlewares

import (
	"time"

	"smsburst-backend/auth"

	"github.com/gofiber/fiber/v2"
)

const AuthCookie = "auth_token"

// RequireUser validates the session cookie and populates c.Locals("userID").
// Every failure mode collapses into the same 401.
func RequireUser(jwtm *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AuthCookie)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}
		userID := jwtm.VerifyToken(token)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// UserID reads the authenticated user id stashed by RequireUser.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// SetAuthCookie attaches the 7-day session cookie; Secure is tied to
// production mode.
func SetAuthCookie(c *fiber.Ctx, token string, production bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Expires:  time.Now().Add(auth.TokenTTL),
		HTTPOnly: true,
		Secure:   production,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClientIP prefers the forwarding headers set by the edge proxy.
func ClientIP(c *fiber.Ctx) string {
	if ip := c.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	return c.IP()
}
