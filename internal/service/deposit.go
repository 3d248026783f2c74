package service

import (
	"context"
	"fmt"
	"time"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

type depositService struct {
	depositRepo  repository.DepositRepository
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	inv          cache.Invalidator
	// warningDays is the expiring-soon threshold surfaced in hold views.
	warningDays int
}

func NewDepositService(
	depositRepo repository.DepositRepository,
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
	inv cache.Invalidator,
	warningDays int,
) DepositService {
	if inv == nil {
		inv = cache.Noop{}
	}
	if warningDays <= 0 {
		warningDays = 2
	}
	return &depositService{
		depositRepo:  depositRepo,
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		inv:          inv,
		warningDays:  warningDays,
	}
}

func (s *depositService) CreateHold(ctx context.Context, bookingID, amountCents int32, paymentIntentID, paymentMethodID string) (*domain.DepositHold, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("hold amount must be positive, got %d", amountCents)
	}
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	// A booking carries one logical hold: a new one may only start when the
	// previous lifecycle is dead.
	existing, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil && err != domain.ErrNotFound {
		return nil, err
	}
	if existing != nil && !existing.Status.IsTerminal() {
		return nil, fmt.Errorf("booking %d already has a deposit hold in status %s", bookingID, existing.Status)
	}

	hold := &domain.DepositHold{
		BookingID:       bookingID,
		Status:          domain.HoldStatusRequiresPayment,
		AmountCents:     amountCents,
		PaymentIntentID: paymentIntentID,
		PaymentMethodID: paymentMethodID,
	}
	if err := s.depositRepo.CreateHold(ctx, hold); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityDeposit, bookingID)
	return hold, nil
}

func (s *depositService) GetHold(ctx context.Context, bookingID int32) (*domain.DepositHold, domain.ExpiryInfo, error) {
	hold, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil {
		return nil, domain.ExpiryInfo{}, err
	}
	return hold, hold.Expiry(timeNow(), s.warningDays), nil
}

func (s *depositService) InitiateCapture(ctx context.Context, staffID, bookingID, amountCents int32) (*domain.DepositHold, error) {
	hold, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if hold.Status != domain.HoldStatusAuthorized {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrHoldNotAuthorized, hold.Status)
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("capture amount must be positive, got %d", amountCents)
	}
	// Never capture more than was authorized.
	if amountCents > hold.AmountCents {
		amountCents = hold.AmountCents
	}

	hold.Status = domain.HoldStatusCapturing
	hold.CapturedCents = amountCents
	if err := s.depositRepo.UpdateHold(ctx, hold); err != nil {
		return nil, err
	}

	action := domain.DepositActionCapture
	if amountCents < hold.AmountCents {
		action = domain.DepositActionPartialCapture
	}
	entry := &domain.DepositLedgerEntry{
		BookingID:   bookingID,
		HoldID:      hold.ID,
		Action:      action,
		AmountCents: amountCents,
		ActorID:     staffID,
	}
	if err := s.depositRepo.AppendLedgerEntry(ctx, entry); err != nil {
		logger.Error("Failed to append deposit ledger entry", "booking_id", bookingID, "action", action, "error", err)
	}

	_ = s.inv.Invalidate(ctx, cache.EntityDeposit, bookingID)
	return hold, nil
}

func (s *depositService) InitiateRelease(ctx context.Context, staffID, bookingID int32) (*domain.DepositHold, error) {
	hold, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if hold.Status != domain.HoldStatusAuthorized {
		return nil, fmt.Errorf("%w: status is %s", domain.ErrHoldNotAuthorized, hold.Status)
	}

	hold.Status = domain.HoldStatusReleasing
	if err := s.depositRepo.UpdateHold(ctx, hold); err != nil {
		return nil, err
	}

	entry := &domain.DepositLedgerEntry{
		BookingID:   bookingID,
		HoldID:      hold.ID,
		Action:      domain.DepositActionRelease,
		AmountCents: hold.AmountCents,
		ActorID:     staffID,
	}
	if err := s.depositRepo.AppendLedgerEntry(ctx, entry); err != nil {
		logger.Error("Failed to append deposit ledger entry", "booking_id", bookingID, "action", entry.Action, "error", err)
	}

	_ = s.inv.Invalidate(ctx, cache.EntityDeposit, bookingID)
	return hold, nil
}

func (s *depositService) CancelHold(ctx context.Context, staffID, bookingID int32, reason string) (*domain.DepositHold, error) {
	hold, err := s.depositRepo.GetHoldByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !hold.Status.CanTransitionTo(domain.HoldStatusCanceled) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, hold.Status, domain.HoldStatusCanceled)
	}
	hold.Status = domain.HoldStatusCanceled
	hold.FailureReason = reason
	if err := s.depositRepo.UpdateHold(ctx, hold); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityDeposit, bookingID)
	return hold, nil
}

// eventTargets maps a processor event to the hold status it lands on.
var eventTargets = map[ProcessorEventType]domain.HoldStatus{
	ProcessorEventAuthorizing: domain.HoldStatusAuthorizing,
	ProcessorEventAuthorized:  domain.HoldStatusAuthorized,
	ProcessorEventCaptured:    domain.HoldStatusCaptured,
	ProcessorEventReleased:    domain.HoldStatusReleased,
	ProcessorEventFailed:      domain.HoldStatusFailed,
	ProcessorEventExpired:     domain.HoldStatusExpired,
}

func (s *depositService) HandleProcessorEvent(ctx context.Context, ev ProcessorEvent) (*domain.DepositHold, error) {
	target, ok := eventTargets[ev.Type]
	if !ok {
		return nil, fmt.Errorf("unknown processor event type %q", ev.Type)
	}

	hold, err := s.depositRepo.GetHoldByIntent(ctx, ev.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !hold.Status.CanTransitionTo(target) {
		// Out-of-order or replayed webhook. Never applied; the caller
		// decides whether to surface or drop it.
		return nil, fmt.Errorf("%w: %s -> %s (event %s)", domain.ErrInvalidTransition, hold.Status, target, ev.EventID)
	}

	hold.Status = target
	switch target {
	case domain.HoldStatusAuthorized:
		hold.AuthorizedAt = ev.AuthorizedAt
		hold.ExpiresAt = ev.ExpiresAt
		if ev.AmountCents > 0 {
			hold.AmountCents = ev.AmountCents
		}
	case domain.HoldStatusCaptured:
		hold.ChargeID = ev.ChargeID
		if ev.AmountCents > 0 && ev.AmountCents <= hold.AmountCents {
			hold.CapturedCents = ev.AmountCents
		}
	case domain.HoldStatusFailed:
		hold.FailureReason = ev.FailureReason
	}

	if err := s.depositRepo.UpdateHold(ctx, hold); err != nil {
		return nil, err
	}

	if target == domain.HoldStatusReleased {
		entry := &domain.DepositLedgerEntry{
			BookingID:   hold.BookingID,
			HoldID:      hold.ID,
			Action:      domain.DepositActionProcessorRelease,
			AmountCents: hold.AmountCents - hold.CapturedCents,
			Notes:       fmt.Sprintf("processor event %s", ev.EventID),
		}
		if err := s.depositRepo.AppendLedgerEntry(ctx, entry); err != nil {
			logger.Error("Failed to append deposit ledger entry", "booking_id", hold.BookingID, "action", entry.Action, "error", err)
		}
	}

	s.notifyCustomer(ctx, hold, target)
	_ = s.inv.Invalidate(ctx, cache.EntityDeposit, hold.BookingID)
	return hold, nil
}

func (s *depositService) notifyCustomer(ctx context.Context, hold *domain.DepositHold, target domain.HoldStatus) {
	if target != domain.HoldStatusCaptured && target != domain.HoldStatusReleased {
		return
	}
	booking, err := s.bookingRepo.GetByID(ctx, hold.BookingID)
	if err != nil {
		return
	}
	customer, err := s.customerRepo.GetByID(ctx, booking.CustomerID)
	if err != nil {
		return
	}

	if target == domain.HoldStatusCaptured {
		err = s.emailSvc.SendDepositCaptureNotice(ctx, customer.Email, customer.Name, booking.ID, hold.CapturedCents, hold.AmountCents-hold.CapturedCents)
	} else {
		err = s.emailSvc.SendDepositReleaseNotice(ctx, customer.Email, customer.Name, booking.ID, hold.AmountCents-hold.CapturedCents)
	}
	if err != nil {
		logger.Warn("Failed to send deposit notice", "booking_id", booking.ID, "status", target, "error", err)
	}
}

func (s *depositService) ListLedger(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error) {
	return s.depositRepo.ListLedgerEntries(ctx, bookingID)
}
