package models

import "time"

const (
	CampaignPending   = "pending"
	CampaignDeploying = "deploying"
	CampaignRunning   = "running"
	CampaignFailed    = "failed"
	CampaignError     = "error"
)

// Campaign status only moves forward: pending -> deploying -> running,
// or terminates in failed/error.
type Campaign struct {
	Id                 uint      `json:"id" gorm:"primaryKey"`
	UserId             string    `json:"-" gorm:"index;not null"`
	Name               string    `json:"name" gorm:"not null"`
	Description        string    `json:"description"`
	RenderServiceId    string    `json:"render_service_id" gorm:"not null"`
	Status             string    `json:"status" gorm:"not null;default:pending"`
	RenderDeploymentId *string   `json:"render_deployment_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
