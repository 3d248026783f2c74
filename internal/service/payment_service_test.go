package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
)

func newPaymentFixture() (*MockPaymentRepo, *MockBookingRepo, PaymentService) {
	paymentRepo := new(MockPaymentRepo)
	bookingRepo := new(MockBookingRepo)
	svc := NewPaymentService(paymentRepo, bookingRepo, nil)
	return paymentRepo, bookingRepo, svc
}

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		paymentRepo, bookingRepo, svc := newPaymentFixture()
		bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1}, nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		p, err := svc.RecordPayment(ctx, 1, 30000, domain.PaymentTypeRental, "card", "txn_1")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPending, p.Status)
		assert.Equal(t, int32(30000), p.AmountCents)
	})

	t.Run("ClosedAccountRejectsCharges", func(t *testing.T) {
		paymentRepo, bookingRepo, svc := newPaymentFixture()
		closedAt := time.Now()
		bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, AccountClosedAt: &closedAt}, nil)

		_, err := svc.RecordPayment(ctx, 1, 30000, domain.PaymentTypeRental, "card", "txn_2")
		assert.ErrorIs(t, err, domain.ErrBookingClosed)
		paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ClosedAccountAllowsRefunds", func(t *testing.T) {
		paymentRepo, bookingRepo, svc := newPaymentFixture()
		closedAt := time.Now()
		bookingRepo.On("GetByID", ctx, int32(1)).Return(&domain.Booking{ID: 1, AccountClosedAt: &closedAt}, nil)
		paymentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		p, err := svc.RecordPayment(ctx, 1, 5000, domain.PaymentTypeRefund, "card", "txn_3")
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentTypeRefund, p.Type)
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		_, _, svc := newPaymentFixture()
		_, err := svc.RecordPayment(ctx, 1, -100, domain.PaymentTypeRental, "card", "")
		assert.Error(t, err)
	})
}

func TestPaymentService_RefundPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		paymentRepo, _, svc := newPaymentFixture()
		paymentRepo.On("GetByID", ctx, int32(2)).Return(&domain.Payment{ID: 2, BookingID: 1, Status: domain.PaymentStatusCompleted}, nil)
		paymentRepo.On("UpdateStatus", ctx, int32(2), domain.PaymentStatusCompleted, domain.PaymentStatusRefunded).Return(nil)

		err := svc.RefundPayment(ctx, 7, 2)
		assert.NoError(t, err)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("PendingPaymentNotRefundable", func(t *testing.T) {
		paymentRepo, _, svc := newPaymentFixture()
		paymentRepo.On("GetByID", ctx, int32(2)).Return(&domain.Payment{ID: 2, Status: domain.PaymentStatusPending}, nil)

		err := svc.RefundPayment(ctx, 7, 2)
		assert.ErrorIs(t, err, domain.ErrPaymentImmutable)
	})
}
