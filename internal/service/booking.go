package service

import (
	"context"
	"fmt"
	"time"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/pricing"
	"rentalops-backend/internal/repository"
)

type bookingService struct {
	bookingRepo  repository.BookingRepository
	vehicleRepo  repository.VehicleRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	inv          cache.Invalidator
	rates        pricing.Rates
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
	inv cache.Invalidator,
	rates pricing.Rates,
) BookingService {
	if inv == nil {
		inv = cache.Noop{}
	}
	return &bookingService{
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		inv:          inv,
		rates:        rates,
	}
}

func (s *bookingService) Quote(ctx context.Context, in pricing.Input) pricing.Quote {
	return pricing.Calculate(in, s.rates)
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID int32, category string, startAt, endAt time.Time, in pricing.Input) (*domain.Booking, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	in.RentalDays = pricing.ComputeRentalDays(startAt, endAt)
	in.PickupDate = startAt
	quote := pricing.Calculate(in, s.rates)

	booking := &domain.Booking{
		CustomerID:          customerID,
		Category:            category,
		Status:              domain.BookingStatusPending,
		StartAt:             startAt,
		EndAt:               endAt,
		DriverAgeBand:       in.DriverAgeBand,
		DailyRateCents:      in.VehicleDailyRateCents,
		ProtectionRateCents: in.ProtectionDailyRateCents,
		AddOnsTotalCents:    quote.AddOnsTotalCents,
		DeliveryFeeCents:    quote.DeliveryFeeCents,
		SubtotalCents:       quote.SubtotalCents,
		TaxCents:            quote.TaxCents,
		TotalCents:          quote.TotalCents,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	_ = s.inv.Invalidate(ctx, cache.EntityBooking, booking.ID)

	if err := s.emailSvc.SendBookingConfirmation(ctx, customer.Email, customer.Name, booking.ID, booking.TotalCents); err != nil {
		logger.Warn("Failed to send booking confirmation", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int32) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// transition moves a booking to the next status under the transition table
// and the version guard.
func (s *bookingService) transition(ctx context.Context, bookingID int32, next domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, b.ID)
	return b, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.BookingStatusConfirmed)
}

func (s *bookingService) ActivateBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.VehicleUnitID == nil {
		return nil, fmt.Errorf("cannot activate booking %d: no vehicle unit assigned", bookingID)
	}
	return s.transition(ctx, bookingID, domain.BookingStatusActive)
}

func (s *bookingService) CompleteBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error) {
	b, err := s.transition(ctx, bookingID, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	// Free the unit for the next rental.
	if b.VehicleUnitID != nil {
		unit, err := s.vehicleRepo.GetUnitByID(ctx, *b.VehicleUnitID)
		if err == nil && unit.Status == domain.VehicleUnitStatusAssigned {
			unit.Status = domain.VehicleUnitStatusAvailable
			if err := s.vehicleRepo.UpdateUnit(ctx, unit); err != nil {
				logger.Warn("Failed to free vehicle unit", "unit_id", unit.ID, "error", err)
			}
		}
	}
	return b, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, staffID, bookingID int32, reason string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, domain.BookingStatusCancelled)
	}
	b.Status = domain.BookingStatusCancelled
	if reason != "" {
		b.Notes = reason
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, b.ID)
	return b, nil
}

func (s *bookingService) reprice(b *domain.Booking, startAt, endAt time.Time) pricing.Quote {
	in := pricing.Input{
		VehicleDailyRateCents:    b.DailyRateCents,
		RentalDays:               pricing.ComputeRentalDays(startAt, endAt),
		ProtectionDailyRateCents: b.ProtectionRateCents,
		AddOnsTotalCents:         b.AddOnsTotalCents,
		DeliveryFeeCents:         b.DeliveryFeeCents,
		DriverAgeBand:            b.DriverAgeBand,
		PickupDate:               startAt,
	}
	return pricing.Calculate(in, s.rates)
}

func (s *bookingService) RepricePreview(ctx context.Context, bookingID int32, startAt, endAt time.Time) (*pricing.Quote, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	quote := s.reprice(b, startAt, endAt)
	return &quote, nil
}

func (s *bookingService) ModifyBooking(ctx context.Context, staffID, bookingID int32, startAt, endAt time.Time) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsFinal() {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, bookingID, b.Status)
	}
	if b.AccountClosedAt != nil {
		return nil, domain.ErrBookingClosed
	}

	quote := s.reprice(b, startAt, endAt)
	b.StartAt = startAt
	b.EndAt = endAt
	b.SubtotalCents = quote.SubtotalCents
	b.TaxCents = quote.TaxCents
	b.TotalCents = quote.TotalCents
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, b.ID)
	return b, nil
}

func (s *bookingService) AssignVehicleUnit(ctx context.Context, staffID, bookingID, unitID int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsFinal() {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, bookingID, b.Status)
	}

	unit, err := s.vehicleRepo.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.Status != domain.VehicleUnitStatusAvailable {
		return nil, fmt.Errorf("vehicle unit %d is not available (status %s)", unitID, unit.Status)
	}
	if unit.Category != b.Category {
		return nil, fmt.Errorf("vehicle unit %d is category %s, booking requires %s", unitID, unit.Category, b.Category)
	}

	b.VehicleUnitID = &unitID
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}

	unit.Status = domain.VehicleUnitStatusAssigned
	if err := s.vehicleRepo.UpdateUnit(ctx, unit); err != nil {
		logger.Warn("Failed to mark vehicle unit assigned", "unit_id", unitID, "error", err)
	}

	_ = s.inv.Invalidate(ctx, cache.EntityBooking, b.ID)
	_ = s.inv.Invalidate(ctx, cache.EntityVehicle, unitID)
	return b, nil
}

func (s *bookingService) AddAddOn(ctx context.Context, staffID, bookingID int32, name string, priceCents, quantity int32) (*domain.AddOn, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsFinal() {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, bookingID, b.Status)
	}
	if quantity < 1 {
		quantity = 1
	}

	addOn := &domain.AddOn{
		BookingID:  bookingID,
		Name:       name,
		PriceCents: priceCents,
		Quantity:   quantity,
	}
	if err := s.bookingRepo.AddAddOn(ctx, addOn); err != nil {
		return nil, err
	}

	// Fold the add-on into the price snapshot and retax.
	b.AddOnsTotalCents += priceCents * quantity
	quote := s.reprice(b, b.StartAt, b.EndAt)
	b.SubtotalCents = quote.SubtotalCents
	b.TaxCents = quote.TaxCents
	b.TotalCents = quote.TotalCents
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityBooking, b.ID)
	return addOn, nil
}

func (s *bookingService) ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByStatus(ctx, status, page, pageSize)
}
