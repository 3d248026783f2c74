package service

import (
	"context"
	"errors"
	"fmt"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

// LoyaltyRules is the program configuration: how points accrue on spend and
// how they convert back to discounts. Earn floors, redeem ceils.
type LoyaltyRules struct {
	PointsPerDollar       int32
	ExcludeTaxes          bool
	IncludeAddOns         bool
	RedeemPointsPerDollar int32
	MaxPercentOfTotal     int32
}

type loyaltyService struct {
	pointsRepo   repository.PointsRepository
	customerRepo repository.CustomerRepository
	emailSvc     EmailService
	inv          cache.Invalidator
	rules        LoyaltyRules
}

func NewLoyaltyService(
	pointsRepo repository.PointsRepository,
	customerRepo repository.CustomerRepository,
	emailSvc EmailService,
	inv cache.Invalidator,
	rules LoyaltyRules,
) LoyaltyService {
	if inv == nil {
		inv = cache.Noop{}
	}
	return &loyaltyService{
		pointsRepo:   pointsRepo,
		customerRepo: customerRepo,
		emailSvc:     emailSvc,
		inv:          inv,
		rules:        rules,
	}
}

// pointsToEarn floors at the dollar boundary: partial dollars never earn.
func (s *loyaltyService) pointsToEarn(totalCents, taxCents, addOnsCents int32) int32 {
	eligible := totalCents
	if s.rules.ExcludeTaxes {
		eligible -= taxCents
	}
	if !s.rules.IncludeAddOns {
		eligible -= addOnsCents
	}
	if eligible <= 0 {
		return 0
	}
	return eligible * s.rules.PointsPerDollar / 100
}

func (s *loyaltyService) Award(ctx context.Context, customerID, bookingID int32, bookingTotalCents, taxCents, addOnsCents int32) (*domain.PointsAwardResult, error) {
	points := s.pointsToEarn(bookingTotalCents, taxCents, addOnsCents)
	if points <= 0 {
		balance, err := s.pointsRepo.GetBalance(ctx, customerID)
		if err != nil {
			return nil, err
		}
		return &domain.PointsAwardResult{PointsEarned: 0, Balance: balance}, nil
	}

	entry := &domain.PointsLedgerEntry{
		CustomerID:      customerID,
		BookingID:       &bookingID,
		Type:            domain.PointsTypeEarn,
		Delta:           points,
		MoneyValueCents: bookingTotalCents,
	}
	err := s.pointsRepo.Apply(ctx, entry)
	if errors.Is(err, domain.ErrDuplicateEntry) {
		// Earn already recorded for this booking: duplicate trigger, no-op.
		balance, berr := s.pointsRepo.GetBalance(ctx, customerID)
		if berr != nil {
			return nil, berr
		}
		return &domain.PointsAwardResult{PointsEarned: 0, AlreadyAwarded: true, Balance: balance}, nil
	}
	if err != nil {
		return nil, err
	}

	if customer, cerr := s.customerRepo.GetByID(ctx, customerID); cerr == nil {
		if merr := s.emailSvc.SendPointsAwardNotice(ctx, customer.Email, customer.Name, points, entry.BalanceAfter); merr != nil {
			logger.Warn("Failed to send points award notice", "customer_id", customerID, "error", merr)
		}
	}

	_ = s.inv.Invalidate(ctx, cache.EntityPoints, customerID)
	return &domain.PointsAwardResult{PointsEarned: points, Balance: entry.BalanceAfter}, nil
}

func (s *loyaltyService) Redeem(ctx context.Context, customerID, bookingID int32, pointsToRedeem int32, bookingTotalCents int32) (*domain.PointsRedeemResult, error) {
	if pointsToRedeem <= 0 {
		return nil, fmt.Errorf("points to redeem must be positive, got %d", pointsToRedeem)
	}
	if s.rules.RedeemPointsPerDollar <= 0 {
		return nil, fmt.Errorf("redemption is not enabled")
	}

	// Discount the points would fund, capped at the program's share of the
	// booking total. Points consumed are rounded up so the discount is never
	// cheaper than its point price. Intermediate products are widened to int64
	// so large point counts cannot overflow.
	wideDiscount := int64(pointsToRedeem) * 100 / int64(s.rules.RedeemPointsPerDollar)
	capCents := int64(bookingTotalCents) * int64(s.rules.MaxPercentOfTotal) / 100
	if wideDiscount > capCents {
		wideDiscount = capCents
	}
	if wideDiscount <= 0 {
		return nil, fmt.Errorf("redemption of %d points yields no discount", pointsToRedeem)
	}
	// Capped at a share of an int32 total, so narrowing is safe.
	discountCents := int32(wideDiscount)
	actualPoints := int32(ceilDiv64(int64(discountCents)*int64(s.rules.RedeemPointsPerDollar), 100))

	entry := &domain.PointsLedgerEntry{
		CustomerID:      customerID,
		BookingID:       &bookingID,
		Type:            domain.PointsTypeRedeem,
		Delta:           -actualPoints,
		MoneyValueCents: discountCents,
	}
	if err := s.pointsRepo.Apply(ctx, entry); err != nil {
		return nil, err
	}

	_ = s.inv.Invalidate(ctx, cache.EntityPoints, customerID)
	return &domain.PointsRedeemResult{
		DiscountCents:    discountCents,
		ActualPointsUsed: actualPoints,
		Balance:          entry.BalanceAfter,
	}, nil
}

func (s *loyaltyService) Reverse(ctx context.Context, customerID, bookingID int32, reason string) (*domain.PointsAwardResult, error) {
	earned, err := s.pointsRepo.SumDeltasForBooking(ctx, customerID, bookingID, domain.PointsTypeEarn)
	if err != nil {
		return nil, err
	}
	if earned <= 0 {
		balance, berr := s.pointsRepo.GetBalance(ctx, customerID)
		if berr != nil {
			return nil, berr
		}
		return &domain.PointsAwardResult{PointsEarned: 0, Balance: balance}, nil
	}

	entry := &domain.PointsLedgerEntry{
		CustomerID: customerID,
		BookingID:  &bookingID,
		Type:       domain.PointsTypeReverse,
		Delta:      -earned,
		Notes:      reason,
	}
	err = s.pointsRepo.Apply(ctx, entry)
	if errors.Is(err, domain.ErrDuplicateEntry) {
		balance, berr := s.pointsRepo.GetBalance(ctx, customerID)
		if berr != nil {
			return nil, berr
		}
		return &domain.PointsAwardResult{PointsEarned: 0, AlreadyAwarded: true, Balance: balance}, nil
	}
	if err != nil {
		return nil, err
	}

	_ = s.inv.Invalidate(ctx, cache.EntityPoints, customerID)
	return &domain.PointsAwardResult{PointsEarned: -earned, Balance: entry.BalanceAfter}, nil
}

func (s *loyaltyService) Adjust(ctx context.Context, staffID, customerID int32, points int32, notes string) (int32, error) {
	if points == 0 {
		return 0, fmt.Errorf("adjustment delta must be non-zero")
	}
	entry := &domain.PointsLedgerEntry{
		CustomerID: customerID,
		Type:       domain.PointsTypeAdjust,
		Delta:      points,
		Notes:      fmt.Sprintf("staff %d: %s", staffID, notes),
	}
	if err := s.pointsRepo.Apply(ctx, entry); err != nil {
		return 0, err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityPoints, customerID)
	return entry.BalanceAfter, nil
}

func (s *loyaltyService) GetBalance(ctx context.Context, customerID int32) (int32, error) {
	return s.pointsRepo.GetBalance(ctx, customerID)
}

func (s *loyaltyService) GetHistory(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error) {
	return s.pointsRepo.ListEntries(ctx, customerID, page, pageSize)
}

func ceilDiv64(a, b int64) int64 {
	return (a + b - 1) / b
}
