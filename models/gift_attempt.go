package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptStarted   AttemptStatus = "started"
	AttemptRejected  AttemptStatus = "rejected"  // local validation failed, nothing sent
	AttemptFailed    AttemptStatus = "failed"    // a remote step failed before the debit
	AttemptDebited   AttemptStatus = "debited"   // balance debited, record not created
	AttemptCompleted AttemptStatus = "completed"
)

const (
	AttemptKindGift   = "gift"
	AttemptKindRedeem = "redeem"
)

// GiftAttempt is the local audit row of one redeem or gift attempt. Its ID is
// the idempotency key sent upstream.
type GiftAttempt struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Kind              string        `gorm:"not null;index" json:"kind"`
	SenderID          int64         `gorm:"not null;index" json:"sender_id"`
	RecipientUsername string        `json:"recipient_username,omitempty"`
	RecipientID       int64         `json:"recipient_id,omitempty"`
	RewardID          int64         `gorm:"not null" json:"reward_id"`
	PointsCost        int           `json:"points_cost"`
	BalanceBefore     int           `json:"balance_before"`
	BalanceAfter      int           `json:"balance_after"`
	Status            AttemptStatus `gorm:"not null;index" json:"status"`
	ErrorKind         string        `json:"error_kind,omitempty"`
	ErrorMessage      string        `json:"error_message,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (a *GiftAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsValidAttemptStatus reports whether s names a known status.
func IsValidAttemptStatus(s string) bool {
	switch AttemptStatus(s) {
	case AttemptStarted, AttemptRejected, AttemptFailed, AttemptDebited, AttemptCompleted:
		return true
	}
	return false
}
