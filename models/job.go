package models

import "time"

// Job mirrors the sender service's job table; this backend only reads it for
// the admin dashboard.
type Job struct {
	Id          uint      `json:"-" gorm:"primaryKey"`
	JobId       string    `json:"job_id" gorm:"index;not null"`
	ApiKeyId    uint      `json:"api_key_id"`
	Mode        string    `json:"mode"`
	SentCount   int       `json:"sent_count" gorm:"not null;default:0"`
	MaxRequests int       `json:"max_requests"`
	Status      string    `json:"status"`
	StartedAt   time.Time `json:"started_at" gorm:"autoCreateTime"`
}
