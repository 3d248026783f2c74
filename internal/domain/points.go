package domain

import "time"

type PointsTransactionType string

const (
	PointsTypeEarn    PointsTransactionType = "EARN"
	PointsTypeRedeem  PointsTransactionType = "REDEEM"
	PointsTypeAdjust  PointsTransactionType = "ADJUST"
	PointsTypeExpire  PointsTransactionType = "EXPIRE"
	PointsTypeReverse PointsTransactionType = "REVERSE"
)

// PointsLedgerEntry is an immutable loyalty transaction. Delta is positive for
// earn/adjust-up, negative for redeem/reverse/expire. BalanceAfter records the
// running balance at write time; the sum of all deltas for a customer equals
// the customer's current balance.
type PointsLedgerEntry struct {
	ID              int32                 `json:"id"`
	CustomerID      int32                 `json:"customer_id"`
	BookingID       *int32                `json:"booking_id,omitempty"`
	Type            PointsTransactionType `json:"type"`
	Delta           int32                 `json:"delta"`
	BalanceAfter    int32                 `json:"balance_after"`
	MoneyValueCents int32                 `json:"money_value_cents,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	ExpiresAt       *time.Time            `json:"expires_at,omitempty"`
	CreatedOn       time.Time             `json:"created_on"`
}

// PointsAwardResult reports the outcome of an award attempt. AlreadyAwarded is
// set when the earn entry for the booking already existed and the call was a
// no-op.
type PointsAwardResult struct {
	PointsEarned   int32 `json:"points_earned"`
	AlreadyAwarded bool  `json:"already_awarded"`
	Balance        int32 `json:"balance"`
}

// PointsRedeemResult carries the applied discount and the points actually
// consumed to fund it.
type PointsRedeemResult struct {
	DiscountCents    int32 `json:"discount_cents"`
	ActualPointsUsed int32 `json:"actual_points_used"`
	Balance          int32 `json:"balance"`
}
