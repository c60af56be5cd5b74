package auth

import (
	"testing"

	"smsburst-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint(chromeUA, "1.2.3.4")
	assert.Equal(t, a, Fingerprint(chromeUA, "1.2.3.4"))
	assert.NotEqual(t, a, Fingerprint(chromeUA, "5.6.7.8"))
	assert.NotEqual(t, a, Fingerprint("other-agent", "1.2.3.4"))
}

func TestParseUserAgent(t *testing.T) {
	info := ParseUserAgent(chromeUA)
	assert.Equal(t, "Chrome", info.Browser)
	assert.Equal(t, "Desktop", info.DeviceName)

	info = ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "Safari", info.Browser)
	assert.Equal(t, "Mobile", info.DeviceName)
}

func TestRecordLoginNewThenKnownDevice(t *testing.T) {
	db := openTestDB(t)
	tracker := NewDeviceTracker(db)
	user := models.User{Email: "a@b.test", PasswordHash: "x", UserSecret: "s"}
	require.NoError(t, db.Create(&user).Error)

	isNew, info, err := tracker.RecordLogin(user.Id, chromeUA, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "Chrome", info.Browser)

	isNew, _, err = tracker.RecordLogin(user.Id, chromeUA, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, isNew, "same agent+ip is a known device")

	isNew, _, err = tracker.RecordLogin(user.Id, chromeUA, "9.9.9.9")
	require.NoError(t, err)
	assert.True(t, isNew, "new ip is a new fingerprint")

	devices, err := tracker.Devices(user.Id)
	require.NoError(t, err)
	assert.Len(t, devices, 2)
}

func TestRecordLoginCountsPerIP(t *testing.T) {
	db := openTestDB(t)
	tracker := NewDeviceTracker(db)
	user := models.User{Email: "a@b.test", PasswordHash: "x", UserSecret: "s"}
	require.NoError(t, db.Create(&user).Error)

	for i := 0; i < 3; i++ {
		_, _, err := tracker.RecordLogin(user.Id, chromeUA, "1.2.3.4")
		require.NoError(t, err)
	}

	sessions, err := tracker.Sessions(user.Id)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].LoginCount)
}

func TestAccountsFromIP(t *testing.T) {
	db := openTestDB(t)
	tracker := NewDeviceTracker(db)

	for i, email := range []string{"a@x.test", "b@x.test", "c@x.test"} {
		user := models.User{Email: email, PasswordHash: "x", UserSecret: "s"}
		require.NoError(t, db.Create(&user).Error)
		_, _, err := tracker.RecordLogin(user.Id, chromeUA, "1.2.3.4")
		require.NoError(t, err)
		count, err := tracker.AccountsFromIP("1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), count)
	}

	count, err := tracker.AccountsFromIP("8.8.8.8")
	require.NoError(t, err)
	assert.Zero(t, count)
}
