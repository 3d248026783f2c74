package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (booking_id, amount_cents, type, status, method, external_txn_ref, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, p.BookingID, p.AmountCents, p.Type, p.Status, p.Method, p.ExternalTxnRef, now, now).Scan(&p.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT id, booking_id, amount_cents, type, status, method, COALESCE(external_txn_ref, ''), created_on, updated_on
	          FROM payments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Type, &p.Status, &p.Method, &p.ExternalTxnRef, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatus performs a compare-and-set on the status column so a payment
// can never skip or repeat a transition under concurrent staff actions.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error {
	query := `UPDATE payments SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
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
	return nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	query := `SELECT id, booking_id, amount_cents, type, status, method, COALESCE(external_txn_ref, ''), created_on, updated_on
	          FROM payments WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Type, &p.Status, &p.Method, &p.ExternalTxnRef, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
