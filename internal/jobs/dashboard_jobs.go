package jobs

import (
	"context"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
)

// RefreshDashboardCounters recomputes the ops overview and pushes it into the
// counter cache so dashboard reads stay off the database.
func (jr *JobRunner) RefreshDashboardCounters() {
	jr.runWithRecovery("RefreshDashboardCounters", func() {
		if jr.counters == nil {
			logger.Debug("No counter cache configured, skipping refresh")
			return
		}
		ctx := context.Background()

		byStatus, err := jr.store.BookingRepository.CountByStatus(ctx)
		if err != nil {
			logger.Error("Failed to count bookings by status", "error", err)
			return
		}
		authorized, err := jr.store.DepositRepository.CountAuthorized(ctx)
		if err != nil {
			logger.Error("Failed to count authorized holds", "error", err)
			return
		}

		counters := &cache.DashboardCounters{
			ActiveRentals:   byStatus[domain.BookingStatusActive],
			PendingBookings: byStatus[domain.BookingStatusPending],
			AuthorizedHolds: authorized,
		}
		if err := jr.counters.SetCounters(ctx, counters); err != nil {
			logger.Error("Failed to store dashboard counters", "error", err)
			return
		}
		logger.Info("Dashboard counters refreshed",
			"active_rentals", counters.ActiveRentals,
			"pending_bookings", counters.PendingBookings,
			"authorized_holds", counters.AuthorizedHolds)
	})
}
