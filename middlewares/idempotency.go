package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"smsburst-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Idempotency processes Idempotency-Key on mutating methods. A replayed key
// returns the stored response without re-running the handler; reuse with a
// different request is a 409.
func Idempotency(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Idempotency-Key too long"})
		}

		userID := UserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "auth context missing"})
		}

		path := c.OriginalURL()
		body := c.Body()

		// Deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		var existing models.IdempotencyKey
		err := db.Where("key = ?", key).First(&existing).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
			}
			rec := models.IdempotencyKey{
				Key:         key,
				RequestHash: reqHash,
				Method:      method,
				Path:        path,
				UserId:      userID,
			}
			if e2 := db.Create(&rec).Error; e2 != nil {
				// Unique race: another request claimed the key first.
				if e3 := db.Where("key = ?", key).First(&existing).Error; e3 != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
				}
			} else {
				existing = rec
			}
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Completed response stored; short-circuit without running the handler.
			c.Status(existing.ResponseStatus)
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(existing.ResponseBody)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// Best-effort: store the response for replay.
		now := time.Now().UTC()
		status := c.Response().StatusCode()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		_ = db.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error

		return nil
	}
}
