package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type depositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) repository.DepositRepository {
	return &depositRepository{db: db}
}

const holdColumns = `id, booking_id, status, amount_cents, captured_cents,
	COALESCE(payment_intent_id, ''), COALESCE(charge_id, ''), COALESCE(payment_method_id, ''),
	authorized_at, expires_at, COALESCE(failure_reason, ''), version, created_on, updated_on`

func scanHold(row interface{ Scan(...any) error }) (*domain.DepositHold, error) {
	h := &domain.DepositHold{}
	err := row.Scan(&h.ID, &h.BookingID, &h.Status, &h.AmountCents, &h.CapturedCents,
		&h.PaymentIntentID, &h.ChargeID, &h.PaymentMethodID,
		&h.AuthorizedAt, &h.ExpiresAt, &h.FailureReason, &h.Version, &h.CreatedOn, &h.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *depositRepository) CreateHold(ctx context.Context, h *domain.DepositHold) error {
	query := `INSERT INTO deposit_holds (booking_id, status, amount_cents, captured_cents, payment_intent_id, payment_method_id, version, created_on, updated_on)
	          VALUES ($1, $2, $3, 0, $4, $5, 1, $6, $7) RETURNING id`
	now := time.Now()
	h.Version = 1
	return r.db.QueryRowContext(ctx, query, h.BookingID, h.Status, h.AmountCents, h.PaymentIntentID, h.PaymentMethodID, now, now).Scan(&h.ID)
}

func (r *depositRepository) GetHoldByBooking(ctx context.Context, bookingID int32) (*domain.DepositHold, error) {
	query := `SELECT ` + holdColumns + ` FROM deposit_holds WHERE booking_id = $1 ORDER BY created_on DESC LIMIT 1`
	return scanHold(r.db.QueryRowContext(ctx, query, bookingID))
}

func (r *depositRepository) GetHoldByIntent(ctx context.Context, paymentIntentID string) (*domain.DepositHold, error) {
	query := `SELECT ` + holdColumns + ` FROM deposit_holds WHERE payment_intent_id = $1`
	return scanHold(r.db.QueryRowContext(ctx, query, paymentIntentID))
}

func (r *depositRepository) UpdateHold(ctx context.Context, h *domain.DepositHold) error {
	query := `UPDATE deposit_holds SET status=$1, captured_cents=$2, payment_intent_id=$3, charge_id=$4, payment_method_id=$5,
	            authorized_at=$6, expires_at=$7, failure_reason=$8, version=version+1, updated_on=$9
	          WHERE id=$10 AND version=$11`
	res, err := r.db.ExecContext(ctx, query, h.Status, h.CapturedCents, h.PaymentIntentID, h.ChargeID, h.PaymentMethodID,
		h.AuthorizedAt, h.ExpiresAt, h.FailureReason, time.Now(), h.ID, h.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}
	h.Version++
	return nil
}

func (r *depositRepository) AppendLedgerEntry(ctx context.Context, e *domain.DepositLedgerEntry) error {
	query := `INSERT INTO deposit_ledger_entries (booking_id, hold_id, action, amount_cents, actor_id, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, e.BookingID, e.HoldID, e.Action, e.AmountCents, e.ActorID, e.Notes, time.Now()).Scan(&e.ID)
}

func (r *depositRepository) ListLedgerEntries(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error) {
	query := `SELECT id, booking_id, hold_id, action, amount_cents, actor_id, COALESCE(notes, ''), created_on
	          FROM deposit_ledger_entries WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.DepositLedgerEntry
	for rows.Next() {
		var e domain.DepositLedgerEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.HoldID, &e.Action, &e.AmountCents, &e.ActorID, &e.Notes, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *depositRepository) ListExpiringHolds(ctx context.Context, before time.Time) ([]domain.DepositHold, error) {
	query := `SELECT ` + holdColumns + ` FROM deposit_holds WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2 ORDER BY expires_at`
	rows, err := r.db.QueryContext(ctx, query, domain.HoldStatusAuthorized, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holds []domain.DepositHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *h)
	}
	return holds, rows.Err()
}

func (r *depositRepository) CountAuthorized(ctx context.Context) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM deposit_holds WHERE status = $1`
	err := r.db.QueryRowContext(ctx, query, domain.HoldStatusAuthorized).Scan(&count)
	return count, err
}
