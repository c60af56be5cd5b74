package controllers

import (
	"fmt"
	"net/url"
	"time"

	"smsburst-backend/ledger"
	"smsburst-backend/middlewares"
	"smsburst-backend/models"
	"smsburst-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreditController struct {
	DB           *gorm.DB
	Ledger       *ledger.Ledger
	ContactPhone string
}

type deductRequest struct {
	PhoneNumber  string `json:"phoneNumber" validate:"required,min=10"`
	MessageCount int    `json:"messageCount" validate:"required,gt=0"`
	Delay        int    `json:"delay" validate:"gte=0"`
}

type purchaseRequest struct {
	PlanId  string  `json:"planId" validate:"required"`
	Credits int     `json:"credits" validate:"required,gt=0"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
}

// Deduct is the launch path: flat 1 credit per message, after the denylist
// check. The deploy path prices differently (see deploy.DeployCost).
func (cr *CreditController) Deduct(c *fiber.Ctx) error {
	var req deductRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	phone, ok := utils.NormalizePhone(req.PhoneNumber)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid phone number"})
	}

	denied, err := cr.isDenied(phone)
	if err != nil {
		return err
	}
	if denied {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "This phone number is protected and cannot receive messages",
		})
	}

	creditsNeeded := req.MessageCount
	remaining, err := cr.Ledger.Deduct(middlewares.UserID(c), creditsNeeded, ledger.Entry{
		Type:         models.TxLaunch,
		Description:  fmt.Sprintf("SMS burst launch - %d messages to %s", req.MessageCount, phone),
		PhoneNumber:  phone,
		MessageCount: req.MessageCount,
		IpAddress:    middlewares.ClientIP(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"creditsDeducted":  creditsNeeded,
		"creditsRemaining": remaining,
		"message":          "Credits deducted. Ready to launch.",
	})
}

// isDenied checks both denylist surfaces; either blocks the send.
func (cr *CreditController) isDenied(phone string) (bool, error) {
	var count int64
	if err := cr.DB.Model(&models.BlacklistEntry{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := cr.DB.Model(&models.BlockedNumber{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Purchase credits the balance immediately and hands back a contact link; no
// real payment capture happens here.
func (cr *CreditController) Purchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	userID := middlewares.UserID(c)
	_, err := cr.Ledger.Add(userID, req.Credits, ledger.Entry{
		Type:        models.TxPurchase,
		Description: fmt.Sprintf("%d credits purchased (Plan: %s)", req.Credits, req.PlanId),
	})
	if err != nil {
		return err
	}

	msg := url.QueryEscape(fmt.Sprintf(
		"Hi, I want to buy %d credits for Rs %d. Order: %s-%d",
		req.Credits, int(req.Amount*83+0.5), userID, time.Now().UnixMilli(),
	))
	link := fmt.Sprintf("https://wa.me/%s?text=%s", cr.ContactPhone, msg)

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      fmt.Sprintf("Credits added! Please complete payment via WhatsApp: %s", link),
		"credits":      req.Credits,
		"whatsappLink": link,
	})
}

// Transactions serves the short credit history (default 20 rows).
func (cr *CreditController) Transactions(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 20)
	rows, err := cr.Ledger.Transactions(middlewares.UserID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": rows})
}

// History serves the full audit log (default 50 rows, capped at 100).
func (cr *CreditController) History(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	rows, err := cr.Ledger.Transactions(middlewares.UserID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": rows,
		"count":        len(rows),
	})
}
