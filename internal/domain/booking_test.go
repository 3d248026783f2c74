package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusActive))
	assert.True(t, BookingStatusActive.CanTransitionTo(BookingStatusCompleted))

	// No skipping ahead.
	assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusActive))
	assert.False(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))

	// Cancel from any non-final status.
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusActive} {
		assert.True(t, s.CanTransitionTo(BookingStatusCancelled), "%s", s)
	}

	// Final statuses never move.
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled} {
		assert.True(t, s.IsFinal(), "%s", s)
		for _, next := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled} {
			assert.False(t, s.CanTransitionTo(next), "%s -> %s", s, next)
		}
	}
}

func TestDriverAgeBand_Underage(t *testing.T) {
	assert.True(t, DriverAgeBand20To24.Underage())
	assert.False(t, DriverAgeBand25Plus.Underage())
	assert.False(t, DriverAgeBand("").Underage())
}

func TestPayment_Refundable(t *testing.T) {
	assert.True(t, (&Payment{Status: PaymentStatusCompleted}).Refundable())
	assert.False(t, (&Payment{Status: PaymentStatusPending}).Refundable())
	assert.False(t, (&Payment{Status: PaymentStatusRefunded}).Refundable())
	assert.False(t, (&Payment{Status: PaymentStatusFailed}).Refundable())
}
