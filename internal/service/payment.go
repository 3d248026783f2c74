package service

import (
	"context"
	"fmt"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	inv         cache.Invalidator
}

func NewPaymentService(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository, inv cache.Invalidator) PaymentService {
	if inv == nil {
		inv = cache.Noop{}
	}
	return &paymentService{paymentRepo: paymentRepo, bookingRepo: bookingRepo, inv: inv}
}

func (s *paymentService) RecordPayment(ctx context.Context, bookingID, amountCents int32, pType domain.PaymentType, method, externalRef string) (*domain.Payment, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %d", amountCents)
	}
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.AccountClosedAt != nil && pType != domain.PaymentTypeRefund {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrBookingClosed, bookingID)
	}

	p := &domain.Payment{
		BookingID:      bookingID,
		AmountCents:    amountCents,
		Type:           pType,
		Status:         domain.PaymentStatusPending,
		Method:         method,
		ExternalTxnRef: externalRef,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, bookingID)
	return p, nil
}

func (s *paymentService) CompletePayment(ctx context.Context, paymentID int32) error {
	// Compare-and-set: only a pending payment may complete.
	err := s.paymentRepo.UpdateStatus(ctx, paymentID, domain.PaymentStatusPending, domain.PaymentStatusCompleted)
	if err != nil {
		return err
	}
	if p, gerr := s.paymentRepo.GetByID(ctx, paymentID); gerr == nil {
		_ = s.inv.Invalidate(ctx, cache.EntityBooking, p.BookingID)
	}
	return nil
}

func (s *paymentService) RefundPayment(ctx context.Context, staffID, paymentID int32) error {
	p, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if !p.Refundable() {
		return fmt.Errorf("%w: payment %d is %s", domain.ErrPaymentImmutable, paymentID, p.Status)
	}
	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, domain.PaymentStatusCompleted, domain.PaymentStatusRefunded); err != nil {
		return err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, p.BookingID)
	return nil
}

func (s *paymentService) ListPayments(ctx context.Context, bookingID int32) ([]domain.Payment, error) {
	return s.paymentRepo.ListByBooking(ctx, bookingID)
}
