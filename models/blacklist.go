package models

import "time"

// BlacklistEntry is the admin blacklist; numbers are normalized to their last
// ten digits before insert.
type BlacklistEntry struct {
	Id      uint      `json:"-" gorm:"primaryKey"`
	Phone   string    `json:"phone" gorm:"uniqueIndex;not null"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// BlockedNumber is the block-phone surface; carries a reason and can be
// unblocked again.
type BlockedNumber struct {
	Id        uint      `json:"-" gorm:"primaryKey"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;not null"`
	Reason    string    `json:"reason"`
	BlockedAt time.Time `json:"blocked_at" gorm:"autoCreateTime"`
}
