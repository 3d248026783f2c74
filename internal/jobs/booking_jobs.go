package jobs

import (
	"context"
	"time"

	"rentalops-backend/internal/logger"
)

// AccrueLateFees bills active bookings that are past their scheduled return.
// A booking stays ACTIVE while the car is out; lateness shows up on the final
// bill as one daily rate per full overdue day. The fee is recomputed from the
// timestamps each run, so re-running the job never double-bills.
func (jr *JobRunner) AccrueLateFees() {
	jr.runWithRecovery("AccrueLateFees", func() {
		ctx := context.Background()

		query := `
			UPDATE bookings
			SET late_fee_cents = daily_rate_cents * FLOOR(EXTRACT(EPOCH FROM ($1 - end_at)) / 86400),
			    updated_on = NOW()
			WHERE status = 'ACTIVE'
			  AND end_at < $1 - INTERVAL '1 day'
			RETURNING id, customer_id, late_fee_cents
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to accrue late fees", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var bookingID, customerID, lateFeeCents int32
			if err := rows.Scan(&bookingID, &customerID, &lateFeeCents); err != nil {
				logger.Error("Failed to scan overdue booking", "error", err)
				continue
			}
			count++
			logger.Debug("Accrued late fee",
				"booking_id", bookingID,
				"customer_id", customerID,
				"late_fee_cents", lateFeeCents)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue bookings", "error", err)
			return
		}

		logger.Info("Accrued late fees on overdue bookings", "count", count)
	})
}
