package pricing

import (
	"math"
	"time"

	"rentalops-backend/internal/domain"
)

// Rates holds the configured tax and regulatory per-day rates. PVRT and
// ACSRCH are flat per-day fees mandated for passenger vehicle rentals; PST
// and GST combine into the tax applied to the fully loaded subtotal.
type Rates struct {
	PSTRate               float64
	GSTRate               float64
	PVRTDailyCents        int32
	ACSRCHDailyCents      int32
	YoungDriverDailyCents int32
}

// Input is everything the calculator needs for one quote.
type Input struct {
	VehicleDailyRateCents    int32
	RentalDays               int32
	ProtectionDailyRateCents int32
	AddOnsTotalCents         int32
	DeliveryFeeCents         int32
	DriverAgeBand            domain.DriverAgeBand
	PickupDate               time.Time
}

// Quote is the full price breakdown. TotalCents == SubtotalCents + TaxCents
// always; callers rely on that invariant after any repricing.
type Quote struct {
	RentalDays           int32 `json:"rental_days"`
	VehicleSubtotalCents int32 `json:"vehicle_subtotal_cents"`
	ProtectionTotalCents int32 `json:"protection_total_cents"`
	AddOnsTotalCents     int32 `json:"add_ons_total_cents"`
	DeliveryFeeCents     int32 `json:"delivery_fee_cents"`
	PVRTTotalCents       int32 `json:"pvrt_total_cents"`
	ACSRCHTotalCents     int32 `json:"acsrch_total_cents"`
	YoungDriverFeeCents  int32 `json:"young_driver_fee_cents"`
	SubtotalCents        int32 `json:"subtotal_cents"`
	TaxCents             int32 `json:"tax_cents"`
	TotalCents           int32 `json:"total_cents"`
}

// ComputeRentalDays converts a pickup/return window into billable days:
// ceil(hours/24), never less than one day.
func ComputeRentalDays(startAt, endAt time.Time) int32 {
	hours := endAt.Sub(startAt).Hours()
	days := int32(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// Calculate computes a quote. Pure and deterministic: identical input yields
// identical output, which is what makes modification preview-before-commit
// safe. Degenerate inputs are clamped rather than rejected: days below one
// bill as one day, negative rates bill as zero.
func Calculate(in Input, rates Rates) Quote {
	days := in.RentalDays
	if days < 1 {
		days = 1
	}
	dailyRate := clampNonNegative(in.VehicleDailyRateCents)
	protectionRate := clampNonNegative(in.ProtectionDailyRateCents)
	addOns := clampNonNegative(in.AddOnsTotalCents)
	delivery := clampNonNegative(in.DeliveryFeeCents)

	vehicleSubtotal := dailyRate * days
	protectionTotal := protectionRate * days
	pvrtTotal := rates.PVRTDailyCents * days
	acsrchTotal := rates.ACSRCHDailyCents * days

	var youngDriverFee int32
	if in.DriverAgeBand.Underage() {
		youngDriverFee = rates.YoungDriverDailyCents * days
	}

	// Tax applies to the fully loaded subtotal: vehicle + protection +
	// add-ons + delivery + regulatory fees + young-driver fee.
	subtotal := vehicleSubtotal + protectionTotal + addOns + delivery +
		pvrtTotal + acsrchTotal + youngDriverFee
	tax := roundCents(float64(subtotal) * (rates.PSTRate + rates.GSTRate))

	return Quote{
		RentalDays:           days,
		VehicleSubtotalCents: vehicleSubtotal,
		ProtectionTotalCents: protectionTotal,
		AddOnsTotalCents:     addOns,
		DeliveryFeeCents:     delivery,
		PVRTTotalCents:       pvrtTotal,
		ACSRCHTotalCents:     acsrchTotal,
		YoungDriverFeeCents:  youngDriverFee,
		SubtotalCents:        subtotal,
		TaxCents:             tax,
		TotalCents:           subtotal + tax,
	}
}

func clampNonNegative(v int32) int32 {
	if v < 0 {
		return 0
	}
	return v
}

func roundCents(v float64) int32 {
	return int32(math.Round(v))
}
