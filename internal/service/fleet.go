package service

import (
	"context"
	"fmt"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/repository"
)

type fleetService struct {
	vehicleRepo repository.VehicleRepository
	inv         cache.Invalidator
}

func NewFleetService(vehicleRepo repository.VehicleRepository, inv cache.Invalidator) FleetService {
	if inv == nil {
		inv = cache.Noop{}
	}
	return &fleetService{vehicleRepo: vehicleRepo, inv: inv}
}

func (s *fleetService) RegisterUnit(ctx context.Context, u *domain.VehicleUnit) error {
	if u.VIN == "" {
		return fmt.Errorf("vin is required")
	}
	if u.Category == "" {
		return fmt.Errorf("category is required")
	}
	if u.Status == "" {
		u.Status = domain.VehicleUnitStatusAvailable
	}
	if err := s.vehicleRepo.CreateUnit(ctx, u); err != nil {
		return err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityVehicle, u.ID)
	return nil
}

func (s *fleetService) GetUnit(ctx context.Context, id int32) (*domain.VehicleUnit, error) {
	return s.vehicleRepo.GetUnitByID(ctx, id)
}

func (s *fleetService) ListUnits(ctx context.Context, category string, status domain.VehicleUnitStatus, page, pageSize int32) ([]domain.VehicleUnit, int32, error) {
	return s.vehicleRepo.ListUnits(ctx, category, status, page, pageSize)
}

func (s *fleetService) RetireUnit(ctx context.Context, staffID, unitID int32) error {
	u, err := s.vehicleRepo.GetUnitByID(ctx, unitID)
	if err != nil {
		return err
	}
	if u.Status == domain.VehicleUnitStatusAssigned {
		return fmt.Errorf("unit %d is assigned to an active rental", unitID)
	}
	u.Status = domain.VehicleUnitStatusRetired
	if err := s.vehicleRepo.UpdateUnit(ctx, u); err != nil {
		return err
	}
	_ = s.inv.Invalidate(ctx, cache.EntityVehicle, unitID)
	return nil
}

func (s *fleetService) RecordExpense(ctx context.Context, e *domain.VehicleExpense) error {
	if e.AmountCents <= 0 {
		return fmt.Errorf("expense amount must be positive, got %d", e.AmountCents)
	}
	if _, err := s.vehicleRepo.GetUnitByID(ctx, e.VehicleUnitID); err != nil {
		return err
	}
	return s.vehicleRepo.AddExpense(ctx, e)
}

func (s *fleetService) ReportDamage(ctx context.Context, d *domain.DamageReport) error {
	if _, err := s.vehicleRepo.GetUnitByID(ctx, d.VehicleUnitID); err != nil {
		return err
	}
	return s.vehicleRepo.AddDamageReport(ctx, d)
}

func (s *fleetService) GetCostSummary(ctx context.Context, unitID int32) (*domain.VehicleCostSummary, error) {
	return s.vehicleRepo.GetCostSummary(ctx, unitID)
}

func (s *fleetService) ListExpenses(ctx context.Context, unitID int32) ([]domain.VehicleExpense, error) {
	return s.vehicleRepo.ListExpenses(ctx, unitID)
}

func (s *fleetService) ListDamageReports(ctx context.Context, unitID int32) ([]domain.DamageReport, error) {
	return s.vehicleRepo.ListDamageReports(ctx, unitID)
}
