package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
)

// SendDepositExpiryWarnings notifies managers about authorized holds that
// will expire inside the warning window. An expired hold cannot be captured;
// the money walks away unless staff act first.
func (jr *JobRunner) SendDepositExpiryWarnings() {
	jr.runWithRecovery("SendDepositExpiryWarnings", func() {
		ctx := context.Background()
		warningDays := jr.config.Deposit.ExpiryWarningDays

		cutoff := time.Now().UTC().AddDate(0, 0, warningDays)
		holds, err := jr.store.DepositRepository.ListExpiringHolds(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list expiring holds", "error", err)
			return
		}
		if len(holds) == 0 {
			logger.Info("No deposit holds expiring soon")
			return
		}

		managers, err := jr.store.StaffRepository.ListActiveByRole(ctx, domain.StaffRoleManager, domain.StaffRoleAdmin)
		if err != nil {
			logger.Error("Failed to list managers for expiry warnings", "error", err)
			return
		}

		notified := 0
		for _, hold := range holds {
			expiry := hold.Expiry(time.Now().UTC(), warningDays)
			title := fmt.Sprintf("Deposit hold expiring for booking #%d", hold.BookingID)
			message := fmt.Sprintf("The authorized hold of $%.2f expires in %d day(s). Capture or release it before the processor voids it.",
				float64(hold.AmountCents)/100, expiry.DaysUntilExpiry)
			attrs := map[string]string{
				"booking_id":        strconv.Itoa(int(hold.BookingID)),
				"hold_id":           strconv.Itoa(int(hold.ID)),
				"days_until_expiry": strconv.Itoa(expiry.DaysUntilExpiry),
			}

			for _, m := range managers {
				if err := jr.services.Notification.Notify(ctx, m.ID, title, message, attrs); err != nil {
					logger.Error("Failed to create expiry warning notification",
						"booking_id", hold.BookingID, "staff_id", m.ID, "error", err)
					continue
				}
				notified++
			}
		}

		logger.Info("Sent deposit expiry warnings", "holds", len(holds), "notifications", notified)
	})
}
