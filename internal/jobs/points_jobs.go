package jobs

import (
	"context"

	"rentalops-backend/internal/logger"
)

// TakePointsSnapshots audits the points ledger: for every customer the sum of
// ledger deltas must equal the stored balance. A mismatch means a write
// bypassed the serialized balance-update path and needs investigation.
func (jr *JobRunner) TakePointsSnapshots() {
	jr.runWithRecovery("TakePointsSnapshots", func() {
		ctx := context.Background()

		query := `
			SELECT c.id, c.points_balance, COALESCE(SUM(l.delta), 0) AS ledger_sum
			FROM customers c
			LEFT JOIN points_ledger_entries l ON l.customer_id = c.id
			GROUP BY c.id, c.points_balance
			HAVING c.points_balance <> COALESCE(SUM(l.delta), 0)
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to audit points balances", "error", err)
			return
		}
		defer rows.Close()

		mismatches := 0
		for rows.Next() {
			var customerID, balance, ledgerSum int32
			if err := rows.Scan(&customerID, &balance, &ledgerSum); err != nil {
				logger.Error("Failed to scan points audit row", "error", err)
				continue
			}
			mismatches++
			logger.Error("Points balance does not match ledger",
				"customer_id", customerID,
				"balance", balance,
				"ledger_sum", ledgerSum)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating points audit rows", "error", err)
			return
		}

		if mismatches == 0 {
			logger.Info("Points ledger audit clean")
		} else {
			logger.Warn("Points ledger audit found mismatches", "count", mismatches)
		}
	})
}
