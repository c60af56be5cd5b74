package controllers

import (
	"time"

	"smsburst-backend/auth"
	"smsburst-backend/middlewares"
	"smsburst-backend/models"
	"smsburst-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB               *gorm.DB
	DefaultRateLimit int
}

type createKeyRequest struct {
	Label     string `json:"label"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin"`
	RateLimit int    `json:"rate_limit" validate:"omitempty,gt=0"`
}

type blockPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Reason      string `json:"reason"`
	Action      string `json:"action" validate:"omitempty,oneof=block unblock"`
}

type blacklistRequest struct {
	Phone string `json:"phone" validate:"required"`
}

func (ad *AdminController) ListKeys(c *fiber.Ctx) error {
	var keys []models.ApiKey
	if err := ad.DB.Order("id").Find(&keys).Error; err != nil {
		return err
	}
	return c.JSON(keys)
}

// CreateKey issues a new API key. The raw key appears in this response and
// nowhere else; only its hash is stored.
func (ad *AdminController) CreateKey(c *fiber.Ctx) error {
	var req createKeyRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Label == "" {
		req.Label = "unnamed"
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.RateLimit <= 0 {
		req.RateLimit = ad.DefaultRateLimit
	}

	rawKey, err := auth.GenerateAPIKey()
	if err != nil {
		return err
	}
	key := models.ApiKey{
		KeyHash:   auth.HashAPIKey(rawKey),
		Label:     req.Label,
		Role:      req.Role,
		RateLimit: req.RateLimit,
	}
	if err := ad.DB.Create(&key).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         key.Id,
		"api_key":    rawKey,
		"label":      key.Label,
		"role":       key.Role,
		"rate_limit": key.RateLimit,
		"warning":    "Save this key - it will never be shown again!",
	})
}

func (ad *AdminController) GetBlacklist(c *fiber.Ctx) error {
	var entries []models.BlacklistEntry
	if err := ad.DB.Order("id DESC").Find(&entries).Error; err != nil {
		return err
	}
	return c.JSON(entries)
}

func (ad *AdminController) AddBlacklist(c *fiber.Ctx) error {
	var req blacklistRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	phone, ok := utils.NormalizePhone(req.Phone)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid phone number"})
	}

	entry := models.BlacklistEntry{Phone: phone}
	if err := ad.DB.Where("phone = ?", phone).FirstOrCreate(&entry).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"phone": phone, "status": "blacklisted"})
}

func (ad *AdminController) BlockPhone(c *fiber.Ctx) error {
	var req blockPhoneRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Action == "" {
		req.Action = "block"
	}
	phone, ok := utils.NormalizePhone(req.PhoneNumber)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid phone number"})
	}

	if req.Action == "unblock" {
		if err := ad.DB.Where("phone = ?", phone).Delete(&models.BlockedNumber{}).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "message": "Phone number " + phone + " has been unblocked"})
	}

	reason := req.Reason
	if reason == "" {
		reason = "Admin blocked"
	}
	entry := models.BlockedNumber{Phone: phone, Reason: reason}
	if err := ad.DB.Where("phone = ?", phone).FirstOrCreate(&entry).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Phone number " + phone + " has been blocked"})
}

func (ad *AdminController) BlockedNumbers(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	if limit > 1000 {
		limit = 1000
	}
	var numbers []models.BlockedNumber
	if err := ad.DB.Order("blocked_at DESC").Limit(limit).Find(&numbers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"blockedNumbers": numbers,
		"count":          len(numbers),
	})
}

// Jobs lists the latest sender jobs joined with the owning key's label.
func (ad *AdminController) Jobs(c *fiber.Ctx) error {
	type jobRow struct {
		JobId       string    `json:"job_id"`
		KeyLabel    string    `json:"key_label"`
		Mode        string    `json:"mode"`
		SentCount   int       `json:"sent_count"`
		MaxRequests int       `json:"max_requests"`
		Status      string    `json:"status"`
		StartedAt   time.Time `json:"started_at"`
	}
	var rows []jobRow
	err := ad.DB.Model(&models.Job{}).
		Select("jobs.job_id, api_keys.label AS key_label, jobs.mode, jobs.sent_count, jobs.max_requests, jobs.status, jobs.started_at").
		Joins("LEFT JOIN api_keys ON api_keys.id = jobs.api_key_id").
		Order("jobs.started_at DESC").
		Limit(50).
		Scan(&rows).Error
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
