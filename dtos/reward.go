package dtos

import "time"

// Reward is a catalogue item redeemable for points.
type Reward struct {
	ID             int64  `json:"Id"`
	Name           string `json:"Name"`
	Description    string `json:"Description"`
	PointsRequired int    `json:"PointsRequired"`
	MinimumTier    Tier   `json:"MinimumTier"`
	Image          string `json:"Image,omitempty"`
}

// RedeemedReward is the durable record of a claimed reward, gifted or not.
type RedeemedReward struct {
	ID                 int64     `json:"Id,omitempty"`
	Name               string    `json:"Name"`
	Description        string    `json:"Description"`
	PointsUsed         int       `json:"PointsUsed"`
	Image              string    `json:"Image,omitempty"`
	Timestamp          time.Time `json:"Timestamp"`
	CustomerID         int64     `json:"CustomerId"`
	OriginalCustomerID int64     `json:"OriginalCustomerId"`
	IsGifted           bool      `json:"IsGifted"`
}

// Voucher is a discount voucher a customer can claim.
type Voucher struct {
	ID              int64      `json:"Id"`
	Code            string     `json:"Code"`
	Description     string     `json:"Description"`
	DiscountPercent float64    `json:"DiscountPercent"`
	PointsRequired  int        `json:"PointsRequired"`
	ExpiresAt       *time.Time `json:"ExpiresAt,omitempty"`
}

// VoucherClaim asks the backend to attach a voucher to a customer.
type VoucherClaim struct {
	CustomerID int64 `json:"CustomerId"`
	VoucherID  int64 `json:"VoucherId"`
}
