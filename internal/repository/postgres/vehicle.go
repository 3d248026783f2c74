package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const unitColumns = `id, vin, category, make, model, year, status, acquisition_cost_cents, acquisition_date, acquisition_mileage, current_mileage, created_on, updated_on`

func scanUnit(row interface{ Scan(...any) error }) (*domain.VehicleUnit, error) {
	u := &domain.VehicleUnit{}
	err := row.Scan(&u.ID, &u.VIN, &u.Category, &u.Make, &u.Model, &u.Year, &u.Status,
		&u.AcquisitionCostCents, &u.AcquisitionDate, &u.AcquisitionMileage, &u.CurrentMileage, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *vehicleRepository) CreateUnit(ctx context.Context, u *domain.VehicleUnit) error {
	query := `INSERT INTO vehicle_units (vin, category, make, model, year, status, acquisition_cost_cents, acquisition_date, acquisition_mileage, current_mileage, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, u.VIN, u.Category, u.Make, u.Model, u.Year, u.Status,
		u.AcquisitionCostCents, u.AcquisitionDate, u.AcquisitionMileage, u.CurrentMileage, now, now).Scan(&u.ID)
}

func (r *vehicleRepository) GetUnitByID(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM vehicle_units WHERE id = $1`
	return scanUnit(r.db.QueryRowContext(ctx, query, id))
}

func (r *vehicleRepository) UpdateUnit(ctx context.Context, u *domain.VehicleUnit) error {
	query := `UPDATE vehicle_units SET category=$1, status=$2, current_mileage=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, u.Category, u.Status, u.CurrentMileage, time.Now(), u.ID)
	return err
}

func (r *vehicleRepository) ListUnits(ctx context.Context, category string, status domain.VehicleUnitStatus, page, pageSize int32) ([]domain.VehicleUnit, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + unitColumns + ` FROM vehicle_units WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var units []domain.VehicleUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, 0, err
		}
		units = append(units, *u)
	}
	return units, count, rows.Err()
}

func (r *vehicleRepository) AddExpense(ctx context.Context, e *domain.VehicleExpense) error {
	query := `INSERT INTO vehicle_expenses (vehicle_unit_id, category, amount_cents, description, vendor, incurred_on, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, e.VehicleUnitID, e.Category, e.AmountCents, e.Description, e.Vendor, e.IncurredOn, time.Now()).Scan(&e.ID)
}

func (r *vehicleRepository) ListExpenses(ctx context.Context, unitID int32) ([]domain.VehicleExpense, error) {
	query := `SELECT id, vehicle_unit_id, category, amount_cents, COALESCE(description, ''), COALESCE(vendor, ''), incurred_on, created_on
	          FROM vehicle_expenses WHERE vehicle_unit_id = $1 ORDER BY incurred_on DESC`
	rows, err := r.db.QueryContext(ctx, query, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.VehicleExpense
	for rows.Next() {
		var e domain.VehicleExpense
		if err := rows.Scan(&e.ID, &e.VehicleUnitID, &e.Category, &e.AmountCents, &e.Description, &e.Vendor, &e.IncurredOn, &e.CreatedOn); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *vehicleRepository) AddDamageReport(ctx context.Context, d *domain.DamageReport) error {
	query := `INSERT INTO damage_reports (vehicle_unit_id, booking_id, severity, description, estimated_cost_cents, reported_by_id, reported_on, resolved, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.VehicleUnitID, d.BookingID, d.Severity, d.Description, d.EstimatedCostCents, d.ReportedByID, d.ReportedOn, time.Now()).Scan(&d.ID)
}

func (r *vehicleRepository) ListDamageReports(ctx context.Context, unitID int32) ([]domain.DamageReport, error) {
	query := `SELECT id, vehicle_unit_id, booking_id, severity, description, estimated_cost_cents, reported_by_id, reported_on, resolved, created_on
	          FROM damage_reports WHERE vehicle_unit_id = $1 ORDER BY reported_on DESC`
	rows, err := r.db.QueryContext(ctx, query, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.DamageReport
	for rows.Next() {
		var d domain.DamageReport
		if err := rows.Scan(&d.ID, &d.VehicleUnitID, &d.BookingID, &d.Severity, &d.Description, &d.EstimatedCostCents, &d.ReportedByID, &d.ReportedOn, &d.Resolved, &d.CreatedOn); err != nil {
			return nil, err
		}
		reports = append(reports, d)
	}
	return reports, rows.Err()
}

func (r *vehicleRepository) GetCostSummary(ctx context.Context, unitID int32) (*domain.VehicleCostSummary, error) {
	summary := &domain.VehicleCostSummary{
		VehicleUnitID:      unitID,
		ExpensesByCategory: make(map[domain.ExpenseCategory]int32),
	}

	err := r.db.QueryRowContext(ctx, `SELECT acquisition_cost_cents FROM vehicle_units WHERE id = $1`, unitID).Scan(&summary.AcquisitionCostCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, SUM(amount_cents) FROM vehicle_expenses WHERE vehicle_unit_id = $1 GROUP BY category`, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category domain.ExpenseCategory
		var total int32
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		summary.ExpensesByCategory[category] = total
		summary.ExpenseTotalCents += total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM damage_reports WHERE vehicle_unit_id = $1 AND resolved = false`, unitID).Scan(&summary.OpenDamageReports)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
