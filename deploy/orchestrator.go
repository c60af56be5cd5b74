package deploy

import (
	"context"
	"fmt"

	"smsburst-backend/ledger"
	"smsburst-backend/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// DeployCost charges 10 credits per 1000 messages, rounded up, and never less
// than the cost of one deployment. This formula is specific to the deploy
// path; the launch path charges a flat credit per message instead.
func DeployCost(messageCount int) int {
	cost := (messageCount*10 + 999) / 1000
	if cost < 10 {
		cost = 10
	}
	return cost
}

// Result summarizes one completed deploy.
type Result struct {
	Campaign        *models.Campaign
	CreditsDeducted int
	DeploymentId    string
}

// Orchestrator sequences the deploy saga: deduct credits, record the audit
// row, call the external service, and compensate with a refund on any
// failure. There is no two-phase commit between the ledger and the external
// service; the refund path is the failure boundary.
type Orchestrator struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	deployer Deployer
	log      zerolog.Logger
}

func NewOrchestrator(db *gorm.DB, l *ledger.Ledger, d Deployer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{db: db, ledger: l, deployer: d, log: log}
}

// Deploy runs the state machine pending -> deploying -> {running|failed|error}
// for the user's campaign. Credits are deducted strictly before deploying;
// running is entered only once the external call succeeded. Any external
// failure refunds the deduction in full before the terminal status is set.
func (o *Orchestrator) Deploy(ctx context.Context, userID string, campaignID uint, messageCount int) (*Result, error) {
	var campaign models.Campaign
	err := o.db.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error
	if err != nil {
		return nil, err
	}

	cost := DeployCost(messageCount)
	if _, err := o.ledger.Deduct(userID, cost, ledger.Entry{
		Type:         models.TxDeduction,
		Description:  fmt.Sprintf("Campaign deployment: %s", campaign.Name),
		MessageCount: messageCount,
	}); err != nil {
		return nil, err
	}

	if err := o.setStatus(&campaign, models.CampaignDeploying, nil); err != nil {
		// Credits are already gone; undo before surfacing the store error.
		o.refund(userID, cost, campaign.Name, "error")
		return nil, err
	}

	deployment, deployErr := o.callDeployer(ctx, campaign.RenderServiceId)
	if deployErr != nil {
		o.refund(userID, cost, campaign.Name, "failed")

		status := models.CampaignFailed
		if apiErr, ok := deployErr.(*APIError); ok && apiErr.Status == 0 {
			// The call never completed (transport error, timeout, panic).
			status = models.CampaignError
		}
		if err := o.setStatus(&campaign, status, nil); err != nil {
			o.log.Error().Err(err).Uint("campaign", campaign.Id).Msg("status update failed after refund")
		}
		return nil, deployErr
	}

	if err := o.setStatus(&campaign, models.CampaignRunning, &deployment.Id); err != nil {
		return nil, err
	}

	return &Result{Campaign: &campaign, CreditsDeducted: cost, DeploymentId: deployment.Id}, nil
}

// callDeployer guards the external call so that even a panicking deployer
// still reaches the compensation path.
func (o *Orchestrator) callDeployer(ctx context.Context, serviceID string) (d *Deployment, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, &APIError{Err: fmt.Errorf("deployer panic: %v", r)}
		}
	}()
	d, err = o.deployer.Deploy(ctx, serviceID)
	if err == nil && d == nil {
		err = &APIError{Err: fmt.Errorf("deployer returned no deployment")}
	}
	return d, err
}

func (o *Orchestrator) refund(userID string, amount int, campaignName, kind string) {
	_, err := o.ledger.Add(userID, amount, ledger.Entry{
		Type:        models.TxRefund,
		Description: fmt.Sprintf("Refund: Deployment %s for %s", kind, campaignName),
	})
	if err != nil {
		o.log.Error().Err(err).Str("user", userID).Int("amount", amount).
			Msg("compensating refund failed")
		return
	}
	o.log.Info().Str("user", userID).Int("amount", amount).Msg("deployment refunded")
}

func (o *Orchestrator) setStatus(campaign *models.Campaign, status string, deploymentID *string) error {
	updates := map[string]any{"status": status}
	if deploymentID != nil {
		updates["render_deployment_id"] = *deploymentID
	}
	if err := o.db.Model(campaign).Updates(updates).Error; err != nil {
		return err
	}
	campaign.Status = status
	campaign.RenderDeploymentId = deploymentID
	return nil
}

// Stop cancels the external job for a running campaign. Stopping never
// refunds credits; the two are independent.
func (o *Orchestrator) Stop(ctx context.Context, userID string, campaignID uint) error {
	var campaign models.Campaign
	err := o.db.Where("id = ? AND user_id = ?", campaignID, userID).First(&campaign).Error
	if err != nil {
		return err
	}
	if campaign.RenderDeploymentId == nil || campaign.Status != models.CampaignRunning {
		return fmt.Errorf("campaign %d has no running deployment", campaignID)
	}
	return o.deployer.Stop(ctx, campaign.RenderServiceId, *campaign.RenderDeploymentId)
}
