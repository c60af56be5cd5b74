package models

import (
	"database/sql"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ApiKey stores only the SHA-256 hash of the raw key; the raw value is shown
// once at creation and never persisted.
type ApiKey struct {
	Id        uint         `json:"id" gorm:"primaryKey"`
	KeyHash   string       `json:"-" gorm:"uniqueIndex;not null"`
	Label     string       `json:"label" gorm:"not null;default:unnamed"`
	Role      string       `json:"role" gorm:"not null;default:user"`
	RateLimit int          `json:"rate_limit" gorm:"not null;default:30"`
	IsActive  bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at"`
	LastUsed  sql.NullTime `json:"last_used"`
}
