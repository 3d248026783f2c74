package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.BookingStatus]int32), args.Error(1)
}
func (m *MockBookingRepo) AddAddOn(ctx context.Context, a *domain.AddOn) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockBookingRepo) ListAddOns(ctx context.Context, bookingID int32) ([]domain.AddOn, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.PaymentStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockDepositRepo
type MockDepositRepo struct {
	mock.Mock
}

func (m *MockDepositRepo) CreateHold(ctx context.Context, h *domain.DepositHold) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
func (m *MockDepositRepo) GetHoldByBooking(ctx context.Context, bookingID int32) (*domain.DepositHold, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositRepo) GetHoldByIntent(ctx context.Context, paymentIntentID string) (*domain.DepositHold, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositRepo) UpdateHold(ctx context.Context, h *domain.DepositHold) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}
func (m *MockDepositRepo) AppendLedgerEntry(ctx context.Context, e *domain.DepositLedgerEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockDepositRepo) ListLedgerEntries(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.DepositLedgerEntry), args.Error(1)
}
func (m *MockDepositRepo) ListExpiringHolds(ctx context.Context, before time.Time) ([]domain.DepositHold, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.DepositHold), args.Error(1)
}
func (m *MockDepositRepo) CountAuthorized(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockPointsRepo
type MockPointsRepo struct {
	mock.Mock
}

func (m *MockPointsRepo) Apply(ctx context.Context, e *domain.PointsLedgerEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockPointsRepo) GetBalance(ctx context.Context, customerID int32) (int32, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPointsRepo) ListEntries(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	return args.Get(0).([]domain.PointsLedgerEntry), args.Get(1).(int32), args.Error(2)
}
func (m *MockPointsRepo) SumDeltas(ctx context.Context, customerID int32) (int32, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockPointsRepo) SumDeltasForBooking(ctx context.Context, customerID, bookingID int32, t domain.PointsTransactionType) (int32, error) {
	args := m.Called(ctx, customerID, bookingID, t)
	return args.Get(0).(int32), args.Error(1)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) CreateUnit(ctx context.Context, u *domain.VehicleUnit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetUnitByID(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleUnit), args.Error(1)
}
func (m *MockVehicleRepo) UpdateUnit(ctx context.Context, u *domain.VehicleUnit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListUnits(ctx context.Context, category string, status domain.VehicleUnitStatus, page, pageSize int32) ([]domain.VehicleUnit, int32, error) {
	args := m.Called(ctx, category, status, page, pageSize)
	return args.Get(0).([]domain.VehicleUnit), args.Get(1).(int32), args.Error(2)
}
func (m *MockVehicleRepo) AddExpense(ctx context.Context, e *domain.VehicleExpense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListExpenses(ctx context.Context, unitID int32) ([]domain.VehicleExpense, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).([]domain.VehicleExpense), args.Error(1)
}
func (m *MockVehicleRepo) AddDamageReport(ctx context.Context, d *domain.DamageReport) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockVehicleRepo) ListDamageReports(ctx context.Context, unitID int32) ([]domain.DamageReport, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).([]domain.DamageReport), args.Error(1)
}
func (m *MockVehicleRepo) GetCostSummary(ctx context.Context, unitID int32) (*domain.VehicleCostSummary, error) {
	args := m.Called(ctx, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCostSummary), args.Error(1)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockStaffRepo
type MockStaffRepo struct {
	mock.Mock
}

func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}
func (m *MockStaffRepo) GetByID(ctx context.Context, id int32) (*domain.StaffUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}
func (m *MockStaffRepo) ListActiveByRole(ctx context.Context, roles ...domain.StaffRole) ([]domain.StaffUser, error) {
	callArgs := make([]interface{}, 0, len(roles)+1)
	callArgs = append(callArgs, ctx)
	for _, r := range roles {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	return args.Get(0).([]domain.StaffUser), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, staffUserID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, staffUserID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, staffUserID int32) error {
	args := m.Called(ctx, id, staffUserID)
	return args.Error(0)
}

// stubEmail satisfies EmailService without sending anything; the services
// under test log-and-ignore email failures, so there is nothing to assert.
type stubEmail struct{}

func (stubEmail) SendBookingConfirmation(ctx context.Context, email, name string, bookingID int32, totalCents int32) error {
	return nil
}
func (stubEmail) SendDepositCaptureNotice(ctx context.Context, email, name string, bookingID int32, capturedCents, releasedCents int32) error {
	return nil
}
func (stubEmail) SendDepositReleaseNotice(ctx context.Context, email, name string, bookingID int32, releasedCents int32) error {
	return nil
}
func (stubEmail) SendCloseoutInvoice(ctx context.Context, email, name string, bookingID int32, invoiceRef string, finalAmountDueCents int32) error {
	return nil
}
func (stubEmail) SendPointsAwardNotice(ctx context.Context, email, name string, points int32, balance int32) error {
	return nil
}
