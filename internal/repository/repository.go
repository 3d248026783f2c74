package repository

import (
	"context"
	"time"

	"rentalops-backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// Update writes all mutable fields guarded by the version column; it
	// returns domain.ErrVersionConflict when the row moved underneath us.
	Update(ctx context.Context, b *domain.Booking) error
	ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error)
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int32, error)

	// Add-ons
	AddAddOn(ctx context.Context, a *domain.AddOn) error
	ListAddOns(ctx context.Context, bookingID int32) ([]domain.AddOn, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error)
}

type DepositRepository interface {
	CreateHold(ctx context.Context, h *domain.DepositHold) error
	GetHoldByBooking(ctx context.Context, bookingID int32) (*domain.DepositHold, error)
	GetHoldByIntent(ctx context.Context, paymentIntentID string) (*domain.DepositHold, error)
	// UpdateHold is version-guarded like booking updates.
	UpdateHold(ctx context.Context, h *domain.DepositHold) error
	AppendLedgerEntry(ctx context.Context, e *domain.DepositLedgerEntry) error
	ListLedgerEntries(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error)
	ListExpiringHolds(ctx context.Context, before time.Time) ([]domain.DepositHold, error)
	CountAuthorized(ctx context.Context) (int32, error)
}

type PointsRepository interface {
	// Apply atomically inserts the ledger entry and moves the customer
	// balance in one transaction. For earn and reverse entries the insert is
	// guarded by a unique index on (booking_id, type): a duplicate returns
	// domain.ErrDuplicateEntry with no balance change.
	Apply(ctx context.Context, e *domain.PointsLedgerEntry) error
	GetBalance(ctx context.Context, customerID int32) (int32, error)
	ListEntries(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error)
	SumDeltas(ctx context.Context, customerID int32) (int32, error)
	// SumDeltasForBooking totals the deltas of one entry type against one
	// booking, e.g. how many points an earn actually granted.
	SumDeltasForBooking(ctx context.Context, customerID, bookingID int32, t domain.PointsTransactionType) (int32, error)
}

type VehicleRepository interface {
	CreateUnit(ctx context.Context, u *domain.VehicleUnit) error
	GetUnitByID(ctx context.Context, id int32) (*domain.VehicleUnit, error)
	UpdateUnit(ctx context.Context, u *domain.VehicleUnit) error
	ListUnits(ctx context.Context, category string, status domain.VehicleUnitStatus, page, pageSize int32) ([]domain.VehicleUnit, int32, error)
	AddExpense(ctx context.Context, e *domain.VehicleExpense) error
	ListExpenses(ctx context.Context, unitID int32) ([]domain.VehicleExpense, error)
	AddDamageReport(ctx context.Context, d *domain.DamageReport) error
	ListDamageReports(ctx context.Context, unitID int32) ([]domain.DamageReport, error)
	GetCostSummary(ctx context.Context, unitID int32) (*domain.VehicleCostSummary, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	GetByID(ctx context.Context, id int32) (*domain.StaffUser, error)
	ListActiveByRole(ctx context.Context, roles ...domain.StaffRole) ([]domain.StaffUser, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, staffUserID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, staffUserID int32) error
}
