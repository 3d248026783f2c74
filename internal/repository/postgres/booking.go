package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, vehicle_unit_id, category, status, start_at, end_at, driver_age_band,
	daily_rate_cents, protection_rate_cents, add_ons_total_cents, delivery_fee_cents,
	subtotal_cents, tax_cents, total_cents, deposit_cents, late_fee_cents,
	version, account_closed_at, COALESCE(final_invoice_ref, ''), COALESCE(notes, ''), created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.CustomerID, &b.VehicleUnitID, &b.Category, &b.Status, &b.StartAt, &b.EndAt, &b.DriverAgeBand,
		&b.DailyRateCents, &b.ProtectionRateCents, &b.AddOnsTotalCents, &b.DeliveryFeeCents,
		&b.SubtotalCents, &b.TaxCents, &b.TotalCents, &b.DepositCents, &b.LateFeeCents,
		&b.Version, &b.AccountClosedAt, &b.FinalInvoiceRef, &b.Notes, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, vehicle_unit_id, category, status, start_at, end_at, driver_age_band,
	            daily_rate_cents, protection_rate_cents, add_ons_total_cents, delivery_fee_cents,
	            subtotal_cents, tax_cents, total_cents, deposit_cents, late_fee_cents, version, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1, $17, $18, $19) RETURNING id`
	now := time.Now()
	b.Version = 1
	return r.db.QueryRowContext(ctx, query,
		b.CustomerID, b.VehicleUnitID, b.Category, b.Status, b.StartAt, b.EndAt, b.DriverAgeBand,
		b.DailyRateCents, b.ProtectionRateCents, b.AddOnsTotalCents, b.DeliveryFeeCents,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents, b.LateFeeCents, b.Notes, now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET vehicle_unit_id=$1, status=$2, start_at=$3, end_at=$4,
	            daily_rate_cents=$5, protection_rate_cents=$6, add_ons_total_cents=$7, delivery_fee_cents=$8,
	            subtotal_cents=$9, tax_cents=$10, total_cents=$11, deposit_cents=$12, late_fee_cents=$13,
	            account_closed_at=$14, final_invoice_ref=$15, notes=$16, version=version+1, updated_on=$17
	          WHERE id=$18 AND version=$19`
	res, err := r.db.ExecContext(ctx, query,
		b.VehicleUnitID, b.Status, b.StartAt, b.EndAt,
		b.DailyRateCents, b.ProtectionRateCents, b.AddOnsTotalCents, b.DeliveryFeeCents,
		b.SubtotalCents, b.TaxCents, b.TotalCents, b.DepositCents, b.LateFeeCents,
		b.AccountClosedAt, b.FinalInvoiceRef, b.Notes, time.Now(), b.ID, b.Version)
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
	b.Version++
	return nil
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM bookings WHERE status = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, status).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, status, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 AND end_at < $2 ORDER BY end_at`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int32)
	for rows.Next() {
		var status domain.BookingStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *bookingRepository) AddAddOn(ctx context.Context, a *domain.AddOn) error {
	query := `INSERT INTO booking_add_ons (booking_id, name, price_cents, quantity) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.BookingID, a.Name, a.PriceCents, a.Quantity).Scan(&a.ID)
}

func (r *bookingRepository) ListAddOns(ctx context.Context, bookingID int32) ([]domain.AddOn, error) {
	query := `SELECT id, booking_id, name, price_cents, quantity FROM booking_add_ons WHERE booking_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addOns []domain.AddOn
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.BookingID, &a.Name, &a.PriceCents, &a.Quantity); err != nil {
			return nil, err
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}
