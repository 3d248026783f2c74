package settlement

import "rentalops-backend/internal/domain"

// Input gathers everything the closeout calculator reads. All figures are
// snapshots; the calculator itself performs no I/O.
type Input struct {
	RentalSubtotalCents int32
	TaxCents            int32
	LateFeeCents        int32
	AddOns              []domain.AddOn
	Payments            []domain.Payment
	HoldStatus          domain.HoldStatus
	HoldAmountCents     int32
}

// Result is the final bill and the deposit disposition at closeout.
type Result struct {
	TotalChargesCents     int32 `json:"total_charges_cents"`
	PaymentsReceivedCents int32 `json:"payments_received_cents"`
	// AmountDueCents may be negative, meaning overpayment. It is not clamped
	// here; FinalAmountDueCents is the clamped figure after deposit capture.
	AmountDueCents        int32 `json:"amount_due_cents"`
	DepositHeldCents      int32 `json:"deposit_held_cents"`
	DepositToCaptureCents int32 `json:"deposit_to_capture_cents"`
	DepositToReleaseCents int32 `json:"deposit_to_release_cents"`
	FinalAmountDueCents   int32 `json:"final_amount_due_cents"`
}

// Checklist is the manual four-eyes guard on account closure. All three
// confirmations are independent staff attestations; none is verified against
// underlying records here.
type Checklist struct {
	ChargesReviewed     bool `json:"charges_reviewed"`
	InspectionComplete  bool `json:"inspection_complete"`
	InvoiceAcknowledged bool `json:"invoice_acknowledged"`
}

// Complete reports whether closure may proceed.
func (c Checklist) Complete() bool {
	return c.ChargesReviewed && c.InspectionComplete && c.InvoiceAcknowledged
}

// Calculate reconciles total charges, payments received, and the deposit hold
// into the final amount due and the capture/release split. Only rental-type
// completed payments count toward payments received; the late fee is included
// only when positive; the deposit is only disposed of when the hold is
// authorized.
func Calculate(in Input) Result {
	total := in.RentalSubtotalCents + in.TaxCents
	if in.LateFeeCents > 0 {
		total += in.LateFeeCents
	}
	for _, a := range in.AddOns {
		total += a.PriceCents * a.Quantity
	}

	var received int32
	for _, p := range in.Payments {
		if p.Type == domain.PaymentTypeRental && p.Status == domain.PaymentStatusCompleted {
			received += p.AmountCents
		}
	}

	res := Result{
		TotalChargesCents:     total,
		PaymentsReceivedCents: received,
		AmountDueCents:        total - received,
	}

	if in.HoldStatus == domain.HoldStatusAuthorized {
		res.DepositHeldCents = in.HoldAmountCents
		due := res.AmountDueCents
		if due < 0 {
			due = 0
		}
		res.DepositToCaptureCents = min32(due, in.HoldAmountCents)
		res.DepositToReleaseCents = in.HoldAmountCents - res.DepositToCaptureCents
	}

	final := res.AmountDueCents - res.DepositToCaptureCents
	if final < 0 {
		final = 0
	}
	res.FinalAmountDueCents = final
	return res
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
