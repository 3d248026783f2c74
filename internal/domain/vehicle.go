package domain

import "time"

type VehicleUnitStatus string

const (
	VehicleUnitStatusAvailable   VehicleUnitStatus = "AVAILABLE"
	VehicleUnitStatusAssigned    VehicleUnitStatus = "ASSIGNED"
	VehicleUnitStatusMaintenance VehicleUnitStatus = "MAINTENANCE"
	VehicleUnitStatusRetired     VehicleUnitStatus = "RETIRED"
)

// VehicleUnit is one physical VIN-tracked vehicle belonging to a category.
// Expenses and damage reports are owned by the unit's lifetime, not by any
// single booking.
type VehicleUnit struct {
	ID                   int32             `json:"id"`
	VIN                  string            `json:"vin"`
	Category             string            `json:"category"`
	Make                 string            `json:"make"`
	Model                string            `json:"model"`
	Year                 int32             `json:"year"`
	Status               VehicleUnitStatus `json:"status"`
	AcquisitionCostCents int32             `json:"acquisition_cost_cents"`
	AcquisitionDate      time.Time         `json:"acquisition_date"`
	AcquisitionMileage   int32             `json:"acquisition_mileage"`
	CurrentMileage       int32             `json:"current_mileage"`
	CreatedOn            time.Time         `json:"created_on"`
	UpdatedOn            time.Time         `json:"updated_on"`
}

type ExpenseCategory string

const (
	ExpenseCategoryFuel         ExpenseCategory = "FUEL"
	ExpenseCategoryMaintenance  ExpenseCategory = "MAINTENANCE"
	ExpenseCategoryInsurance    ExpenseCategory = "INSURANCE"
	ExpenseCategoryRegistration ExpenseCategory = "REGISTRATION"
	ExpenseCategoryCleaning     ExpenseCategory = "CLEANING"
	ExpenseCategoryOther        ExpenseCategory = "OTHER"
)

type VehicleExpense struct {
	ID            int32           `json:"id"`
	VehicleUnitID int32           `json:"vehicle_unit_id"`
	Category      ExpenseCategory `json:"category"`
	AmountCents   int32           `json:"amount_cents"`
	Description   string          `json:"description,omitempty"`
	Vendor        string          `json:"vendor,omitempty"`
	IncurredOn    time.Time       `json:"incurred_on"`
	CreatedOn     time.Time       `json:"created_on"`
}

type DamageSeverity string

const (
	DamageSeverityMinor    DamageSeverity = "MINOR"
	DamageSeverityModerate DamageSeverity = "MODERATE"
	DamageSeverityMajor    DamageSeverity = "MAJOR"
)

type DamageReport struct {
	ID            int32          `json:"id"`
	VehicleUnitID int32          `json:"vehicle_unit_id"`
	// BookingID links the report to the rental during which the damage was
	// found, when known. The report itself belongs to the unit.
	BookingID          *int32         `json:"booking_id,omitempty"`
	Severity           DamageSeverity `json:"severity"`
	Description        string         `json:"description"`
	EstimatedCostCents int32          `json:"estimated_cost_cents"`
	ReportedByID       int32          `json:"reported_by_id"`
	ReportedOn         time.Time      `json:"reported_on"`
	Resolved           bool           `json:"resolved"`
	CreatedOn          time.Time      `json:"created_on"`
}

// VehicleCostSummary aggregates lifetime spend for one unit.
type VehicleCostSummary struct {
	VehicleUnitID        int32                     `json:"vehicle_unit_id"`
	AcquisitionCostCents int32                     `json:"acquisition_cost_cents"`
	ExpenseTotalCents    int32                     `json:"expense_total_cents"`
	ExpensesByCategory   map[ExpenseCategory]int32 `json:"expenses_by_category"`
	OpenDamageReports    int32                     `json:"open_damage_reports"`
}
