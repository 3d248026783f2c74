package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// bookingTransitions is the closed transition table for booking statuses.
// Cancellation is allowed from any non-final status; completed and cancelled
// bookings never move again.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsFinal() bool {
	return len(bookingTransitions[s]) == 0
}

// DriverAgeBand buckets renter age for surcharge purposes.
type DriverAgeBand string

const (
	DriverAgeBand20To24 DriverAgeBand = "20_24"
	DriverAgeBand25Plus DriverAgeBand = "25_plus"
)

// Underage reports whether the band carries the young-driver surcharge.
func (b DriverAgeBand) Underage() bool {
	return b == DriverAgeBand20To24
}

type Booking struct {
	ID         int32         `json:"id"`
	CustomerID int32         `json:"customer_id"`
	// VehicleUnitID is nil until a physical unit is assigned by staff.
	VehicleUnitID *int32        `json:"vehicle_unit_id,omitempty"`
	Category      string        `json:"category"`
	Status        BookingStatus `json:"status"`
	StartAt       time.Time     `json:"start_at"`
	EndAt         time.Time     `json:"end_at"`
	DriverAgeBand DriverAgeBand `json:"driver_age_band"`

	// Price snapshot fields, captured at quote time. Repricing rewrites all of
	// them together so total_cents == subtotal_cents + tax_cents always holds.
	DailyRateCents      int32 `json:"daily_rate_cents"`
	ProtectionRateCents int32 `json:"protection_rate_cents"`
	AddOnsTotalCents    int32 `json:"add_ons_total_cents"`
	DeliveryFeeCents    int32 `json:"delivery_fee_cents"`
	SubtotalCents       int32 `json:"subtotal_cents"`
	TaxCents            int32 `json:"tax_cents"`
	TotalCents          int32 `json:"total_cents"`
	DepositCents        int32 `json:"deposit_cents"`
	LateFeeCents        int32 `json:"late_fee_cents"`

	// Version guards concurrent staff writes; every update must match and bump it.
	Version int32 `json:"version"`

	AccountClosedAt *time.Time `json:"account_closed_at,omitempty"`
	FinalInvoiceRef string     `json:"final_invoice_ref,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// AddOn is a priced extra attached to a booking (child seat, GPS, extra driver).
type AddOn struct {
	ID         int32  `json:"id"`
	BookingID  int32  `json:"booking_id"`
	Name       string `json:"name"`
	PriceCents int32  `json:"price_cents"`
	Quantity   int32  `json:"quantity"`
}
