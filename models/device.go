package models

import "time"

// TrustedDevice is one known (user, fingerprint) pair. Detection is advisory:
// a new device is recorded and surfaced, never blocked.
type TrustedDevice struct {
	Id          uint      `json:"-" gorm:"primaryKey"`
	UserId      string    `json:"-" gorm:"index:idx_user_fingerprint,unique;not null"`
	Fingerprint string    `json:"fingerprint" gorm:"index:idx_user_fingerprint,unique;not null"`
	DeviceName  string    `json:"device_name"`
	Browser     string    `json:"browser"`
	LastUsed    time.Time `json:"last_used"`
	IsTrusted   bool      `json:"is_trusted" gorm:"not null;default:false"`
}

// LoginIP counts logins per (user, ip) for session auditing and the signup
// flood-control check.
type LoginIP struct {
	Id         uint      `json:"-" gorm:"primaryKey"`
	UserId     string    `json:"-" gorm:"index:idx_user_ip,unique;not null"`
	IpAddress  string    `json:"ip_address" gorm:"index:idx_user_ip,unique;not null"`
	LoginCount int       `json:"login_count" gorm:"not null;default:0"`
	LastLogin  time.Time `json:"last_login"`
}
