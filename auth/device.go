package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"smsburst-backend/models"

	"gorm.io/gorm"
)

// Fingerprint derives the device fingerprint from user agent and client IP.
func Fingerprint(userAgent, ip string) string {
	sum := sha256.Sum256([]byte(userAgent + "|" + ip))
	return hex.EncodeToString(sum[:])
}

// DeviceInfo is the coarse user-agent classification surfaced on login.
type DeviceInfo struct {
	DeviceName string `json:"deviceName"`
	Browser    string `json:"browser"`
}

func ParseUserAgent(ua string) DeviceInfo {
	info := DeviceInfo{DeviceName: "Desktop", Browser: "Unknown"}
	if strings.Contains(ua, "Mobile") || strings.Contains(ua, "Android") || strings.Contains(ua, "iPhone") {
		info.DeviceName = "Mobile"
	}
	switch {
	case strings.Contains(ua, "Edg/"):
		info.Browser = "Edge"
	case strings.Contains(ua, "Chrome/"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Firefox/"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "Safari/"):
		info.Browser = "Safari"
	}
	return info
}

// DeviceTracker records fingerprints and per-IP login counters. Detection is
// advisory: a new device is persisted and reported, never blocked.
type DeviceTracker struct {
	db *gorm.DB
}

func NewDeviceTracker(db *gorm.DB) *DeviceTracker {
	return &DeviceTracker{db: db}
}

// RecordLogin updates the fingerprint and IP tables for a successful login and
// reports whether the device was unseen until now.
func (t *DeviceTracker) RecordLogin(userID, userAgent, ip string) (isNewDevice bool, info DeviceInfo, err error) {
	info = ParseUserAgent(userAgent)
	fp := Fingerprint(userAgent, ip)
	now := time.Now()

	var device models.TrustedDevice
	err = t.db.Where("user_id = ? AND fingerprint = ?", userID, fp).First(&device).Error
	switch err {
	case nil:
		err = t.db.Model(&device).Update("last_used", now).Error
	case gorm.ErrRecordNotFound:
		isNewDevice = true
		device = models.TrustedDevice{
			UserId:      userID,
			Fingerprint: fp,
			DeviceName:  info.DeviceName,
			Browser:     info.Browser,
			LastUsed:    now,
			IsTrusted:   false,
		}
		err = t.db.Create(&device).Error
	}
	if err != nil {
		return false, info, err
	}

	if err = t.recordIP(userID, ip, now); err != nil {
		return false, info, err
	}
	return isNewDevice, info, nil
}

func (t *DeviceTracker) recordIP(userID, ip string, now time.Time) error {
	var rec models.LoginIP
	err := t.db.Where("user_id = ? AND ip_address = ?", userID, ip).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		rec = models.LoginIP{UserId: userID, IpAddress: ip, LoginCount: 1, LastLogin: now}
		return t.db.Create(&rec).Error
	}
	if err != nil {
		return err
	}
	return t.db.Model(&rec).Updates(map[string]any{
		"login_count": gorm.Expr("login_count + 1"),
		"last_login":  now,
	}).Error
}

// Devices lists the user's known devices.
func (t *DeviceTracker) Devices(userID string) ([]models.TrustedDevice, error) {
	var devices []models.TrustedDevice
	err := t.db.Where("user_id = ?", userID).Order("last_used DESC").Find(&devices).Error
	return devices, err
}

// Sessions lists the user's login IP records.
func (t *DeviceTracker) Sessions(userID string) ([]models.LoginIP, error) {
	var sessions []models.LoginIP
	err := t.db.Where("user_id = ?", userID).Order("last_login DESC").Find(&sessions).Error
	return sessions, err
}

// AccountsFromIP counts distinct users that have logged in (or signed up) from
// the IP. Used by the signup flood check.
func (t *DeviceTracker) AccountsFromIP(ip string) (int64, error) {
	var count int64
	err := t.db.Model(&models.LoginIP{}).
		Where("ip_address = ?", ip).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}
