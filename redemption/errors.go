package redemption

import (
	"fmt"

	"grabbi-storefront/apiclient"
)

// Kind classifies why a redeem or gift attempt stopped.
type Kind string

const (
	KindNoSession            Kind = "no_session"
	KindEmptyRecipient       Kind = "empty_recipient"
	KindInvalidReward        Kind = "invalid_reward"
	KindInsufficientPoints   Kind = "insufficient_points"
	KindTierTooLow           Kind = "tier_too_low"
	KindRecipientNotFound    Kind = "recipient_not_found"
	KindRecipientLookup      Kind = "recipient_lookup_failed"
	KindBalanceUpdateFailed  Kind = "balance_update_failed"
	KindRecordCreationFailed Kind = "record_creation_failed"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrNoSession            = &Error{Kind: KindNoSession}
	ErrEmptyRecipient       = &Error{Kind: KindEmptyRecipient}
	ErrInvalidReward        = &Error{Kind: KindInvalidReward}
	ErrInsufficientPoints   = &Error{Kind: KindInsufficientPoints}
	ErrTierTooLow           = &Error{Kind: KindTierTooLow}
	ErrRecipientNotFound    = &Error{Kind: KindRecipientNotFound}
	ErrRecipientLookup      = &Error{Kind: KindRecipientLookup}
	ErrBalanceUpdateFailed  = &Error{Kind: KindBalanceUpdateFailed}
	ErrRecordCreationFailed = &Error{Kind: KindRecordCreationFailed}
)

// Error is a failed redeem or gift attempt. Partial is set when the sender's
// balance was already debited upstream before the failure.
type Error struct {
	Kind    Kind
	Step    string
	Partial bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Step, e.Err)
	}
	if e.Step != "" {
		return fmt.Sprintf("%s at %s", e.Kind, e.Step)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Local reports whether the attempt was stopped before any network call.
func (e *Error) Local() bool {
	switch e.Kind {
	case KindNoSession, KindEmptyRecipient, KindInvalidReward, KindInsufficientPoints, KindTierTooLow:
		return true
	}
	return false
}

// Message is the text shown to the user.
func (e *Error) Message() string {
	switch e.Kind {
	case KindNoSession:
		return "Please sign in again."
	case KindEmptyRecipient:
		return "Please enter the username of the person you want to gift this reward to."
	case KindInvalidReward:
		return "This reward cannot be redeemed."
	case KindInsufficientPoints:
		return "You do not have enough points for this reward."
	case KindTierTooLow:
		return "Your membership tier is too low for this reward."
	case KindRecipientNotFound:
		return "No customer was found with that username."
	case KindRecipientLookup:
		return "Could not look up that username: " + apiclient.Message(e.Err)
	case KindBalanceUpdateFailed:
		return "Could not update your points balance: " + apiclient.Message(e.Err)
	case KindRecordCreationFailed:
		return "Your points were deducted but the reward could not be recorded. Please contact support."
	}
	return "Something went wrong."
}

func newError(kind Kind, step string, err error) *Error {
	return &Error{Kind: kind, Step: step, Err: err}
}
