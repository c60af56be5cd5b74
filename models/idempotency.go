package models

import "time"

// IdempotencyKey stores one guarded request and, once the handler completed,
// its response for replay.
type IdempotencyKey struct {
	Id             uint   `gorm:"primaryKey"`
	Key            string `gorm:"uniqueIndex;not null"`
	RequestHash    string `gorm:"not null"`
	Method         string `gorm:"not null"`
	Path           string `gorm:"not null"`
	UserId         string `gorm:"index;not null"`
	ResponseStatus int
	ResponseBody   []byte
	CreatedAt      time.Time
	CompletedAt    *time.Time
}
