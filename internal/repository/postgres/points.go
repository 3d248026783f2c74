package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"

	"github.com/lib/pq"
)

type pointsRepository struct {
	db *sql.DB
}

func NewPointsRepository(db *sql.DB) repository.PointsRepository {
	return &pointsRepository{db: db}
}

// Apply moves the customer balance and appends the ledger entry in one
// transaction. The balance UPDATE is the single serialized mutation path for
// points; concurrent callers queue on the row lock instead of losing updates.
// The partial unique index on (booking_id, type) for EARN and REVERSE rows
// turns duplicate awards into domain.ErrDuplicateEntry before any balance
// change is committed.
func (r *pointsRepository) Apply(ctx context.Context, e *domain.PointsLedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var balance int32
	updateQuery := `UPDATE customers SET points_balance = points_balance + $1, updated_on = $2
	                WHERE id = $3 RETURNING points_balance`
	err = tx.QueryRowContext(ctx, updateQuery, e.Delta, time.Now(), e.CustomerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		// The CHECK (points_balance >= 0) constraint rejects an
		// over-redemption before the row is returned.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "check_violation" {
			return domain.ErrInsufficientPoints
		}
		return err
	}
	e.BalanceAfter = balance

	insertQuery := `INSERT INTO points_ledger_entries (customer_id, booking_id, type, delta, balance_after, money_value_cents, notes, expires_at, created_on)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = tx.QueryRowContext(ctx, insertQuery, e.CustomerID, e.BookingID, e.Type, e.Delta, e.BalanceAfter, e.MoneyValueCents, e.Notes, e.ExpiresAt, time.Now()).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateEntry
		}
		return err
	}

	return tx.Commit()
}

func (r *pointsRepository) GetBalance(ctx context.Context, customerID int32) (int32, error) {
	var balance int32
	query := `SELECT points_balance FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return balance, err
}

func (r *pointsRepository) ListEntries(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM points_ledger_entries WHERE customer_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, customerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, customer_id, booking_id, type, delta, balance_after, money_value_cents, COALESCE(notes, ''), expires_at, created_on
	          FROM points_ledger_entries WHERE customer_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.PointsLedgerEntry
	for rows.Next() {
		var e domain.PointsLedgerEntry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.BookingID, &e.Type, &e.Delta, &e.BalanceAfter, &e.MoneyValueCents, &e.Notes, &e.ExpiresAt, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}

func (r *pointsRepository) SumDeltas(ctx context.Context, customerID int32) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(delta), 0) FROM points_ledger_entries WHERE customer_id = $1`
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(&sum)
	return sum, err
}

func (r *pointsRepository) SumDeltasForBooking(ctx context.Context, customerID, bookingID int32, t domain.PointsTransactionType) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(delta), 0) FROM points_ledger_entries WHERE customer_id = $1 AND booking_id = $2 AND type = $3`
	err := r.db.QueryRowContext(ctx, query, customerID, bookingID, t).Scan(&sum)
	return sum, err
}
