package domain

import "time"

type HoldStatus string

const (
	HoldStatusNone            HoldStatus = "NONE"
	HoldStatusRequiresPayment HoldStatus = "REQUIRES_PAYMENT"
	HoldStatusAuthorizing     HoldStatus = "AUTHORIZING"
	HoldStatusAuthorized      HoldStatus = "AUTHORIZED"
	HoldStatusCapturing       HoldStatus = "CAPTURING"
	HoldStatusCaptured        HoldStatus = "CAPTURED"
	HoldStatusReleasing       HoldStatus = "RELEASING"
	HoldStatusReleased        HoldStatus = "RELEASED"
	HoldStatusFailed          HoldStatus = "FAILED"
	HoldStatusExpired         HoldStatus = "EXPIRED"
	HoldStatusCanceled        HoldStatus = "CANCELED"
)

// holdTransitions is the closed transition table for deposit holds. The
// processor drives most transitions; this service only ever initiates
// capturing and releasing, both strictly from authorized. Terminal statuses
// have no entries: a new hold restarts from NONE.
var holdTransitions = map[HoldStatus][]HoldStatus{
	HoldStatusNone:            {HoldStatusRequiresPayment, HoldStatusCanceled},
	HoldStatusRequiresPayment: {HoldStatusAuthorizing, HoldStatusCanceled},
	HoldStatusAuthorizing:     {HoldStatusAuthorized, HoldStatusFailed, HoldStatusCanceled},
	HoldStatusAuthorized:      {HoldStatusCapturing, HoldStatusReleasing, HoldStatusExpired, HoldStatusCanceled},
	HoldStatusCapturing:       {HoldStatusCaptured, HoldStatusFailed},
	HoldStatusReleasing:       {HoldStatusReleased, HoldStatusFailed},
	HoldStatusCaptured:        {},
	HoldStatusReleased:        {},
	HoldStatusFailed:          {},
	HoldStatusExpired:         {},
	HoldStatusCanceled:        {},
}

func (s HoldStatus) CanTransitionTo(next HoldStatus) bool {
	for _, allowed := range holdTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s HoldStatus) IsTerminal() bool {
	return len(holdTransitions[s]) == 0
}

// HasProcessorHold reports whether a card hold of any kind exists or existed.
// Callers use it to decide whether legacy manual deposit tracking applies.
func (s HoldStatus) HasProcessorHold() bool {
	switch s {
	case HoldStatusRequiresPayment, HoldStatusAuthorizing, HoldStatusAuthorized,
		HoldStatusCapturing, HoldStatusCaptured, HoldStatusReleasing, HoldStatusReleased:
		return true
	case HoldStatusNone, HoldStatusFailed, HoldStatusExpired, HoldStatusCanceled:
		return false
	}
	return false
}

// DepositHold is the one logical card authorization per booking. State
// transitions performed by the payment processor land here via webhook; the
// amounts obey captured <= authorized at all times.
type DepositHold struct {
	ID              int32      `json:"id"`
	BookingID       int32      `json:"booking_id"`
	Status          HoldStatus `json:"status"`
	AmountCents     int32      `json:"amount_cents"`
	CapturedCents   int32      `json:"captured_cents"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	ChargeID        string     `json:"charge_id,omitempty"`
	PaymentMethodID string     `json:"payment_method_id,omitempty"`
	AuthorizedAt    *time.Time `json:"authorized_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	Version         int32      `json:"version"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// ExpiryInfo is the derived countdown view for an authorized hold.
type ExpiryInfo struct {
	DaysUntilExpiry int  `json:"days_until_expiry"`
	IsExpiringSoon  bool `json:"is_expiring_soon"`
}

// Expiry derives the countdown against now, flagging holds inside the warning
// window. Only meaningful while the hold is authorized; other statuses return
// a zero value.
func (h *DepositHold) Expiry(now time.Time, warningDays int) ExpiryInfo {
	if h.Status != HoldStatusAuthorized || h.ExpiresAt == nil {
		return ExpiryInfo{}
	}
	remaining := h.ExpiresAt.Sub(now)
	days := int(remaining.Hours() / 24)
	if days < 0 {
		days = 0
	}
	return ExpiryInfo{
		DaysUntilExpiry: days,
		IsExpiringSoon:  remaining <= time.Duration(warningDays)*24*time.Hour,
	}
}

type DepositAction string

const (
	DepositActionCapture          DepositAction = "CAPTURE"
	DepositActionPartialCapture   DepositAction = "PARTIAL_CAPTURE"
	DepositActionRelease          DepositAction = "RELEASE"
	DepositActionProcessorRelease DepositAction = "PROCESSOR_RELEASE"
)

// DepositLedgerEntry is an immutable audit record of one action taken against
// a booking's hold. Append-only; never updated or deleted.
type DepositLedgerEntry struct {
	ID          int32         `json:"id"`
	BookingID   int32         `json:"booking_id"`
	HoldID      int32         `json:"hold_id"`
	Action      DepositAction `json:"action"`
	AmountCents int32         `json:"amount_cents"`
	ActorID     int32         `json:"actor_id"`
	Notes       string        `json:"notes,omitempty"`
	CreatedOn   time.Time     `json:"created_on"`
}
