package controllers

import (
	"smsburst-backend/middlewares"
	"smsburst-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CampaignController struct {
	DB *gorm.DB
}

type createCampaignRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description" validate:"required"`
	RenderServiceId string `json:"renderServiceId" validate:"required"`
}

func (cc *CampaignController) List(c *fiber.Ctx) error {
	var campaigns []models.Campaign
	err := cc.DB.Where("user_id = ?", middlewares.UserID(c)).
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"campaigns": campaigns})
}

func (cc *CampaignController) Create(c *fiber.Ctx) error {
	var req createCampaignRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	campaign := models.Campaign{
		UserId:          middlewares.UserID(c),
		Name:            req.Name,
		Description:     req.Description,
		RenderServiceId: req.RenderServiceId,
		Status:          models.CampaignPending,
	}
	if err := cc.DB.Create(&campaign).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"campaign": campaign})
}
