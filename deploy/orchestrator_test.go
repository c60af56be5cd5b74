package deploy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"smsburst-backend/database"
	"smsburst-backend/ledger"
	"smsburst-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeDeployer struct {
	deployment *Deployment
	err        error
	panics     bool
	calls      int
	stopped    []string
}

func (f *fakeDeployer) Deploy(_ context.Context, serviceID string) (*Deployment, error) {
	f.calls++
	if f.panics {
		panic("deployer exploded")
	}
	return f.deployment, f.err
}

func (f *fakeDeployer) Stop(_ context.Context, serviceID, deploymentID string) error {
	f.stopped = append(f.stopped, deploymentID)
	return f.err
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func setup(t *testing.T, credits int, d Deployer) (*Orchestrator, *gorm.DB, string, uint) {
	t.Helper()
	db := openTestDB(t)
	user := models.User{Email: "u@test", PasswordHash: "x", UserSecret: "s", Credits: credits}
	require.NoError(t, db.Create(&user).Error)
	campaign := models.Campaign{
		UserId:          user.Id,
		Name:            "burst-1",
		RenderServiceId: "srv-123",
		Status:          models.CampaignPending,
	}
	require.NoError(t, db.Create(&campaign).Error)
	o := NewOrchestrator(db, ledger.New(db), d, zerolog.Nop())
	return o, db, user.Id, campaign.Id
}

func balance(t *testing.T, db *gorm.DB, userID string) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", userID).Error)
	return user.Credits
}

func txByType(t *testing.T, db *gorm.DB, userID string) map[string]int {
	t.Helper()
	var rows []models.CreditTransaction
	require.NoError(t, db.Where("user_id = ?", userID).Find(&rows).Error)
	out := map[string]int{}
	for i := range rows {
		out[rows[i].TransactionType]++
	}
	return out
}

func TestDeployCost(t *testing.T) {
	assert.Equal(t, 10, DeployCost(1), "floor of one deployment")
	assert.Equal(t, 10, DeployCost(1000))
	assert.Equal(t, 11, DeployCost(1001), "partial thousand rounds up")
	assert.Equal(t, 20, DeployCost(2000))
	assert.Equal(t, 100, DeployCost(10000))
}

func TestDeploySuccess(t *testing.T) {
	fake := &fakeDeployer{deployment: &Deployment{Id: "dep-42", Status: "created"}}
	o, db, userID, campaignID := setup(t, 100, fake)

	result, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	require.NoError(t, err)
	assert.Equal(t, "dep-42", result.DeploymentId)
	assert.Equal(t, 10, result.CreditsDeducted)
	assert.Equal(t, 1, fake.calls)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	assert.Equal(t, models.CampaignRunning, campaign.Status)
	require.NotNil(t, campaign.RenderDeploymentId)
	assert.Equal(t, "dep-42", *campaign.RenderDeploymentId)

	assert.Equal(t, 90, balance(t, db, userID))
	assert.Equal(t, map[string]int{models.TxDeduction: 1}, txByType(t, db, userID))
}

func TestDeployExternalRejectionRefunds(t *testing.T) {
	fake := &fakeDeployer{err: &APIError{Status: 503}}
	o, db, userID, campaignID := setup(t, 100, fake)

	_, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	var ae *APIError
	require.ErrorAs(t, err, &ae)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	assert.Equal(t, models.CampaignFailed, campaign.Status)

	// Refund fully compensates: balance back to pre-deploy, one deduction
	// and one refund row.
	assert.Equal(t, 100, balance(t, db, userID))
	assert.Equal(t, map[string]int{models.TxDeduction: 1, models.TxRefund: 1}, txByType(t, db, userID))
}

func TestDeployTransportErrorRefunds(t *testing.T) {
	fake := &fakeDeployer{err: &APIError{Err: errors.New("dial tcp: i/o timeout")}}
	o, db, userID, campaignID := setup(t, 100, fake)

	_, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	require.Error(t, err)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	assert.Equal(t, models.CampaignError, campaign.Status)
	assert.Equal(t, 100, balance(t, db, userID))
}

func TestDeployPanickingDeployerStillRefunds(t *testing.T) {
	fake := &fakeDeployer{panics: true}
	o, db, userID, campaignID := setup(t, 100, fake)

	_, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	require.Error(t, err)

	assert.Equal(t, 100, balance(t, db, userID))
	assert.Equal(t, map[string]int{models.TxDeduction: 1, models.TxRefund: 1}, txByType(t, db, userID))
}

func TestDeployInsufficientCreditsNeverCallsService(t *testing.T) {
	fake := &fakeDeployer{deployment: &Deployment{Id: "dep-42"}}
	o, db, userID, campaignID := setup(t, 5, fake)

	_, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	var ice *ledger.InsufficientCreditsError
	require.ErrorAs(t, err, &ice)
	assert.Zero(t, fake.calls)

	var campaign models.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	assert.Equal(t, models.CampaignPending, campaign.Status)
	assert.Equal(t, 5, balance(t, db, userID))
}

func TestDeployUnknownCampaign(t *testing.T) {
	fake := &fakeDeployer{}
	o, db, userID, _ := setup(t, 100, fake)

	_, err := o.Deploy(context.Background(), userID, 9999, 1000)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 100, balance(t, db, userID))
}

func TestStopDoesNotRefund(t *testing.T) {
	fake := &fakeDeployer{deployment: &Deployment{Id: "dep-42"}}
	o, db, userID, campaignID := setup(t, 100, fake)

	_, err := o.Deploy(context.Background(), userID, campaignID, 1000)
	require.NoError(t, err)
	require.Equal(t, 90, balance(t, db, userID))

	require.NoError(t, o.Stop(context.Background(), userID, campaignID))
	assert.Equal(t, []string{"dep-42"}, fake.stopped)
	assert.Equal(t, 90, balance(t, db, userID), "stopping never refunds")
}

func TestStopWithoutRunningDeployment(t *testing.T) {
	fake := &fakeDeployer{}
	o, _, userID, campaignID := setup(t, 100, fake)

	err := o.Stop(context.Background(), userID, campaignID)
	assert.Error(t, err)
	assert.Empty(t, fake.stopped)
}
