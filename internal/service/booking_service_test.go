package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/pricing"
)

func testPricingRates() pricing.Rates {
	return pricing.Rates{
		PSTRate:               0.07,
		GSTRate:               0.05,
		PVRTDailyCents:        150,
		ACSRCHDailyCents:      100,
		YoungDriverDailyCents: 2500,
	}
}

type bookingFixture struct {
	bookingRepo  *MockBookingRepo
	vehicleRepo  *MockVehicleRepo
	customerRepo *MockCustomerRepo
	svc          BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookingRepo:  new(MockBookingRepo),
		vehicleRepo:  new(MockVehicleRepo),
		customerRepo: new(MockCustomerRepo),
	}
	f.svc = NewBookingService(f.bookingRepo, f.vehicleRepo, f.customerRepo, stubEmail{}, nil, testPricingRates())
	return f
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("PricesFromDates", func(t *testing.T) {
		f := newBookingFixture()
		f.customerRepo.On("GetByID", ctx, int32(3)).Return(&domain.Customer{ID: 3, Email: "c@example.com", Name: "C"}, nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		startAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
		endAt := startAt.AddDate(0, 0, 3)
		b, err := f.svc.CreateBooking(ctx, 3, "suv", startAt, endAt, pricing.Input{
			VehicleDailyRateCents: 8000,
			DriverAgeBand:         domain.DriverAgeBand25Plus,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		// 3 days x (8000 rate + 150 PVRT + 100 ACSRCH) = 24750
		assert.Equal(t, int32(24750), b.SubtotalCents)
		// 12% combined PST+GST on the fully loaded subtotal
		assert.Equal(t, int32(2970), b.TaxCents)
		assert.Equal(t, int32(27720), b.TotalCents)
	})

	t.Run("UnknownCustomerRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.customerRepo.On("GetByID", ctx, int32(3)).Return(nil, domain.ErrNotFound)

		_, err := f.svc.CreateBooking(ctx, 3, "suv", time.Now(), time.Now().AddDate(0, 0, 1), pricing.Input{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		f.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestBookingService_StatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("ConfirmFromPending", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusPending}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		b, err := f.svc.ConfirmBooking(ctx, 7, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	})

	t.Run("ConfirmFromActiveRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusActive}, nil)

		_, err := f.svc.ConfirmBooking(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("ActivateRequiresAssignedUnit", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}, nil)

		_, err := f.svc.ActivateBooking(ctx, 7, 1)
		assert.Error(t, err)
		f.bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("CompleteFreesVehicleUnit", func(t *testing.T) {
		f := newBookingFixture()
		unitID := int32(5)
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusActive, VehicleUnitID: &unitID}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.vehicleRepo.On("GetUnitByID", ctx, unitID).Return(&domain.VehicleUnit{ID: 5, Status: domain.VehicleUnitStatusAssigned}, nil)
		f.vehicleRepo.On("UpdateUnit", ctx, mock.MatchedBy(func(u *domain.VehicleUnit) bool {
			return u.Status == domain.VehicleUnitStatusAvailable
		})).Return(nil)

		b, err := f.svc.CompleteBooking(ctx, 7, 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCompleted, b.Status)
		f.vehicleRepo.AssertExpectations(t)
	})

	t.Run("CancelRecordsReason", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		b, err := f.svc.CancelBooking(ctx, 7, 1, "customer request")
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, b.Status)
		assert.Equal(t, "customer request", b.Notes)
	})

	t.Run("CancelCompletedRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusCompleted}, nil)

		_, err := f.svc.CancelBooking(ctx, 7, 1, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("VersionConflictPropagates", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusPending}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrVersionConflict)

		_, err := f.svc.ConfirmBooking(ctx, 7, 1)
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestBookingService_ModifyBooking(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("RepricesNewWindow", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{
			ID: 1, Status: domain.BookingStatusConfirmed,
			StartAt: start, EndAt: start.AddDate(0, 0, 3),
			DailyRateCents: 8000, DriverAgeBand: domain.DriverAgeBand25Plus,
		}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		b, err := f.svc.ModifyBooking(ctx, 7, 1, start, start.AddDate(0, 0, 5))
		assert.NoError(t, err)
		// 5 days x (8000 + 150 + 100) = 41250
		assert.Equal(t, int32(41250), b.SubtotalCents)
		assert.Equal(t, start.AddDate(0, 0, 5), b.EndAt)
	})

	t.Run("FinalBookingRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusCancelled}, nil)

		_, err := f.svc.ModifyBooking(ctx, 7, 1, start, start.AddDate(0, 0, 5))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("ClosedAccountRejected", func(t *testing.T) {
		f := newBookingFixture()
		closedAt := time.Now()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{
			ID: 1, Status: domain.BookingStatusCompleted, AccountClosedAt: &closedAt,
		}, nil)

		_, err := f.svc.ModifyBooking(ctx, 7, 1, start, start.AddDate(0, 0, 5))
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBookingService_AssignVehicleUnit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed, Category: "suv"}, nil)
		f.vehicleRepo.On("GetUnitByID", ctx, int32(5)).Return(&domain.VehicleUnit{ID: 5, Category: "suv", Status: domain.VehicleUnitStatusAvailable}, nil)
		f.bookingRepo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
		f.vehicleRepo.On("UpdateUnit", ctx, mock.MatchedBy(func(u *domain.VehicleUnit) bool {
			return u.Status == domain.VehicleUnitStatusAssigned
		})).Return(nil)

		b, err := f.svc.AssignVehicleUnit(ctx, 7, 1, 5)
		assert.NoError(t, err)
		assert.NotNil(t, b.VehicleUnitID)
		assert.Equal(t, int32(5), *b.VehicleUnitID)
	})

	t.Run("CategoryMismatchRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed, Category: "suv"}, nil)
		f.vehicleRepo.On("GetUnitByID", ctx, int32(5)).Return(&domain.VehicleUnit{ID: 5, Category: "sedan", Status: domain.VehicleUnitStatusAvailable}, nil)

		_, err := f.svc.AssignVehicleUnit(ctx, 7, 1, 5)
		assert.Error(t, err)
		f.bookingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("UnavailableUnitRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusConfirmed, Category: "suv"}, nil)
		f.vehicleRepo.On("GetUnitByID", ctx, int32(5)).Return(&domain.VehicleUnit{ID: 5, Category: "suv", Status: domain.VehicleUnitStatusAssigned}, nil)

		_, err := f.svc.AssignVehicleUnit(ctx, 7, 1, 5)
		assert.Error(t, err)
	})
}

func TestBookingService_AddAddOn(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("FoldsIntoSnapshotAndRetaxes", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{
			ID: 1, Status: domain.BookingStatusConfirmed,
			StartAt: start, EndAt: start.AddDate(0, 0, 3),
			DailyRateCents: 8000, DriverAgeBand: domain.DriverAgeBand25Plus,
		}, nil)
		f.bookingRepo.On("AddAddOn", ctx, mock.AnythingOfType("*domain.AddOn")).Return(nil)
		f.bookingRepo.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			// base 24750 + 2x1000 add-on
			return b.AddOnsTotalCents == 2000 && b.SubtotalCents == 26750
		})).Return(nil)

		addOn, err := f.svc.AddAddOn(ctx, 7, 1, "child seat", 1000, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(1000), addOn.PriceCents)
		assert.Equal(t, int32(2), addOn.Quantity)
		f.bookingRepo.AssertExpectations(t)
	})

	t.Run("FinalBookingRejected", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, Status: domain.BookingStatusCompleted}, nil)

		_, err := f.svc.AddAddOn(ctx, 7, 1, "child seat", 1000, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
