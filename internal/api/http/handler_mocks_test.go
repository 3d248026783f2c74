package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/service"
	"rentalops-backend/internal/settlement"
)

// MockDepositService
type MockDepositService struct {
	mock.Mock
}

func (m *MockDepositService) CreateHold(ctx context.Context, bookingID, amountCents int32, paymentIntentID, paymentMethodID string) (*domain.DepositHold, error) {
	args := m.Called(ctx, bookingID, amountCents, paymentIntentID, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositService) GetHold(ctx context.Context, bookingID int32) (*domain.DepositHold, domain.ExpiryInfo, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, domain.ExpiryInfo{}, args.Error(2)
	}
	return args.Get(0).(*domain.DepositHold), args.Get(1).(domain.ExpiryInfo), args.Error(2)
}
func (m *MockDepositService) InitiateCapture(ctx context.Context, staffID, bookingID, amountCents int32) (*domain.DepositHold, error) {
	args := m.Called(ctx, staffID, bookingID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositService) InitiateRelease(ctx context.Context, staffID, bookingID int32) (*domain.DepositHold, error) {
	args := m.Called(ctx, staffID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositService) CancelHold(ctx context.Context, staffID, bookingID int32, reason string) (*domain.DepositHold, error) {
	args := m.Called(ctx, staffID, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositService) HandleProcessorEvent(ctx context.Context, ev service.ProcessorEvent) (*domain.DepositHold, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositHold), args.Error(1)
}
func (m *MockDepositService) ListLedger(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.DepositLedgerEntry), args.Error(1)
}

// MockSettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Preview(ctx context.Context, bookingID int32) (*settlement.Result, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Result), args.Error(1)
}
func (m *MockSettlementService) CloseAccount(ctx context.Context, staffID, bookingID int32, checklist settlement.Checklist) (*service.CloseoutResult, error) {
	args := m.Called(ctx, staffID, bookingID, checklist)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CloseoutResult), args.Error(1)
}
