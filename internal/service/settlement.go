package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
	"rentalops-backend/internal/settlement"
)

type settlementService struct {
	bookingRepo  repository.BookingRepository
	paymentRepo  repository.PaymentRepository
	depositRepo  repository.DepositRepository
	customerRepo repository.CustomerRepository
	depositSvc   DepositService
	emailSvc     EmailService
	inv          cache.Invalidator
}

func NewSettlementService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	depositRepo repository.DepositRepository,
	customerRepo repository.CustomerRepository,
	depositSvc DepositService,
	emailSvc EmailService,
	inv cache.Invalidator,
) SettlementService {
	if inv == nil {
		inv = cache.Noop{}
	}
	return &settlementService{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		depositRepo:  depositRepo,
		customerRepo: customerRepo,
		depositSvc:   depositSvc,
		emailSvc:     emailSvc,
		inv:          inv,
	}
}

// buildInput gathers everything the closeout math needs. Any read failure
// aborts the whole computation: a partial settlement figure is worse than none.
func (s *settlementService) buildInput(ctx context.Context, bookingID int32) (*domain.Booking, settlement.Input, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, settlement.Input{}, fmt.Errorf("load booking: %w", err)
	}
	addOns, err := s.bookingRepo.ListAddOns(ctx, bookingID)
	if err != nil {
		return nil, settlement.Input{}, fmt.Errorf("load add-ons: %w", err)
	}
	payments, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, settlement.Input{}, fmt.Errorf("load payments: %w", err)
	}

	in := settlement.Input{
		TaxCents:     booking.TaxCents,
		LateFeeCents: booking.LateFeeCents,
		AddOns:       addOns,
		Payments:     payments,
	}

	// Add-on rows are already folded into the booking's subtotal snapshot;
	// back them out so the itemized rows are counted exactly once.
	var addOnRowsCents int32
	for _, a := range addOns {
		addOnRowsCents += a.PriceCents * a.Quantity
	}
	in.RentalSubtotalCents = booking.SubtotalCents - addOnRowsCents

	hold, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil && err != domain.ErrNotFound {
		return nil, settlement.Input{}, fmt.Errorf("load deposit hold: %w", err)
	}
	if hold != nil {
		in.HoldStatus = hold.Status
		in.HoldAmountCents = hold.AmountCents
	}
	return booking, in, nil
}

func (s *settlementService) Preview(ctx context.Context, bookingID int32) (*settlement.Result, error) {
	_, in, err := s.buildInput(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := settlement.Calculate(in)
	return &result, nil
}

func (s *settlementService) CloseAccount(ctx context.Context, staffID, bookingID int32, checklist settlement.Checklist) (*CloseoutResult, error) {
	if !checklist.Complete() {
		return nil, fmt.Errorf("all closeout confirmations are required before closing the account")
	}

	booking, in, err := s.buildInput(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.AccountClosedAt != nil {
		return nil, fmt.Errorf("%w: booking %d closed at %s", domain.ErrBookingClosed, bookingID, booking.AccountClosedAt.Format("2006-01-02"))
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: booking %d is %s, closeout requires a completed rental", domain.ErrInvalidTransition, bookingID, booking.Status)
	}

	result := settlement.Calculate(in)

	// Persist the invoice first. If deposit disposition fails afterwards the
	// account stays closed and the hold is flagged for manual reconciliation
	// rather than reopening billing.
	invoiceRef := fmt.Sprintf("INV-%d-%s", bookingID, uuid.NewString()[:8])
	now := timeNow()
	booking.AccountClosedAt = &now
	booking.FinalInvoiceRef = invoiceRef
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	out := &CloseoutResult{
		Booking:    booking,
		Settlement: &result,
		InvoiceRef: invoiceRef,
	}

	if in.HoldStatus == domain.HoldStatusAuthorized {
		switch {
		case result.DepositToCaptureCents > 0:
			_, err = s.depositSvc.InitiateCapture(ctx, staffID, bookingID, result.DepositToCaptureCents)
		case result.DepositToReleaseCents > 0:
			_, err = s.depositSvc.InitiateRelease(ctx, staffID, bookingID)
		}
		if err != nil {
			out.ReconcileManually = true
			out.ReconcileReason = err.Error()
			logger.Error("Deposit disposition failed after account closure",
				"booking_id", bookingID, "invoice_ref", invoiceRef, "error", err)
		} else {
			out.DepositActioned = true
		}
	}

	s.sendInvoice(ctx, booking, invoiceRef, result.FinalAmountDueCents)
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, bookingID)
	return out, nil
}

func (s *settlementService) sendInvoice(ctx context.Context, booking *domain.Booking, invoiceRef string, finalDueCents int32) {
	customer, err := s.customerRepo.GetByID(ctx, booking.CustomerID)
	if err != nil {
		logger.Warn("Failed to load customer for invoice email", "booking_id", booking.ID, "error", err)
		return
	}
	if err := s.emailSvc.SendCloseoutInvoice(ctx, customer.Email, customer.Name, booking.ID, invoiceRef, finalDueCents); err != nil {
		logger.Warn("Failed to send closeout invoice", "booking_id", booking.ID, "error", err)
	}
}
