package domain

import "time"

type PaymentType string

const (
	PaymentTypeRental     PaymentType = "RENTAL"
	PaymentTypeDeposit    PaymentType = "DEPOSIT"
	PaymentTypeAdditional PaymentType = "ADDITIONAL"
	PaymentTypeRefund     PaymentType = "REFUND"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Payment is a monetary transaction against exactly one booking. Completed
// payments are immutable except for the completed -> refunded transition.
type Payment struct {
	ID             int32         `json:"id"`
	BookingID      int32         `json:"booking_id"`
	AmountCents    int32         `json:"amount_cents"`
	Type           PaymentType   `json:"type"`
	Status         PaymentStatus `json:"status"`
	Method         string        `json:"method"`
	ExternalTxnRef string        `json:"external_txn_ref,omitempty"`
	CreatedOn      time.Time     `json:"created_on"`
	UpdatedOn      time.Time     `json:"updated_on"`
}

// Refundable reports whether the payment may move to refunded.
func (p *Payment) Refundable() bool {
	return p.Status == PaymentStatusCompleted
}
