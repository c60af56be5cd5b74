package controllers

import (
	"smsburst-backend/deploy"
	"smsburst-backend/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RenderController struct {
	Orchestrator *deploy.Orchestrator
}

type deployRequest struct {
	CampaignId   uint `json:"campaignId" validate:"required"`
	MessageCount int  `json:"messageCount" validate:"required,gt=0"`
}

type stopRequest struct {
	CampaignId uint `json:"campaignId" validate:"required"`
}

func (rc *RenderController) Deploy(c *fiber.Ctx) error {
	var req deployRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := rc.Orchestrator.Deploy(c.Context(), middlewares.UserID(c), req.CampaignId, req.MessageCount)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"message":         "Deployment initiated successfully",
		"creditsDeducted": result.CreditsDeducted,
		"deploymentId":    result.DeploymentId,
		"campaign":        result.Campaign,
	})
}

// Stop cancels the external job; remaining credits are not refunded.
func (rc *RenderController) Stop(c *fiber.Ctx) error {
	var req stopRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := rc.Orchestrator.Stop(c.Context(), middlewares.UserID(c), req.CampaignId); err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Campaign not found"})
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Deployment stopped"})
}
