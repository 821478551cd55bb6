package dtos

import "strings"

// Tier is the customer's loyalty tier.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

var tierRank = map[string]int{
	"bronze":   1,
	"silver":   2,
	"gold":     3,
	"platinum": 4,
}

// Rank orders tiers from Bronze (1) to Platinum (4). Unknown or empty tiers
// rank 0, below every named tier.
func (t Tier) Rank() int {
	return tierRank[strings.ToLower(strings.TrimSpace(string(t)))]
}

// AtLeast reports whether t is the same as or above min. An empty min admits
// every tier; a named min that is not a known tier admits none.
func (t Tier) AtLeast(min Tier) bool {
	if strings.TrimSpace(string(min)) != "" && min.Rank() == 0 {
		return false
	}
	return t.Rank() >= min.Rank()
}

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Identity is the authenticated customer or staff record.
type Identity struct {
	ID     int64  `json:"Id"`
	Name   string `json:"Name"`
	Email  string `json:"Email"`
	Phone  string `json:"Phone,omitempty"`
	Points int    `json:"Points"`
	Tier   Tier   `json:"Tier"`
	Role   string `json:"Role"`
}

// AuthResponse is what the backend returns from login, OTP verification and
// Google sign-in.
type AuthResponse struct {
	Token string   `json:"Token"`
	User  Identity `json:"User"`
}
