package http

import (
	"net/http"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/service"
)

type FleetHandler struct {
	fleetSvc service.FleetService
}

func NewFleetHandler(fleetSvc service.FleetService) *FleetHandler {
	return &FleetHandler{fleetSvc: fleetSvc}
}

type registerUnitRequest struct {
	VIN                  string `json:"vin"`
	Category             string `json:"category"`
	Make                 string `json:"make"`
	Model                string `json:"model"`
	Year                 int32  `json:"year"`
	AcquisitionCostCents int32  `json:"acquisition_cost_cents"`
	AcquisitionDate      string `json:"acquisition_date"`
	AcquisitionMileage   int32  `json:"acquisition_mileage"`
}

func (h *FleetHandler) RegisterUnit(w http.ResponseWriter, r *http.Request) {
	var req registerUnitRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.VIN == "" || req.Category == "" {
		writeBadRequest(w, "vin and category are required")
		return
	}

	unit := &domain.VehicleUnit{
		VIN:                  req.VIN,
		Category:             req.Category,
		Make:                 req.Make,
		Model:                req.Model,
		Year:                 req.Year,
		AcquisitionCostCents: req.AcquisitionCostCents,
		AcquisitionMileage:   req.AcquisitionMileage,
		CurrentMileage:       req.AcquisitionMileage,
	}
	if req.AcquisitionDate != "" {
		if t, err := time.Parse("2006-01-02", req.AcquisitionDate); err == nil {
			unit.AcquisitionDate = t
		}
	}

	if err := h.fleetSvc.RegisterUnit(r.Context(), unit); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, unit)
}

func (h *FleetHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	unit, err := h.fleetSvc.GetUnit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (h *FleetHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	status := domain.VehicleUnitStatus(r.URL.Query().Get("status"))
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	units, total, err := h.fleetSvc.ListUnits(r.Context(), category, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"units": units,
		"total": total,
		"page":  page,
	})
}

func (h *FleetHandler) RetireUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())
	if err := h.fleetSvc.RetireUnit(r.Context(), staffID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retired"})
}

type recordExpenseRequest struct {
	Category    string `json:"category"`
	AmountCents int32  `json:"amount_cents"`
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	IncurredOn  string `json:"incurred_on"`
}

func (h *FleetHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	var req recordExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}

	expense := &domain.VehicleExpense{
		VehicleUnitID: id,
		Category:      domain.ExpenseCategory(req.Category),
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		Vendor:        req.Vendor,
	}
	if req.IncurredOn != "" {
		if t, err := time.Parse("2006-01-02", req.IncurredOn); err == nil {
			expense.IncurredOn = t
		}
	}

	if err := h.fleetSvc.RecordExpense(r.Context(), expense); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *FleetHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	expenses, err := h.fleetSvc.ListExpenses(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

type reportDamageRequest struct {
	BookingID          *int32 `json:"booking_id"`
	Severity           string `json:"severity"`
	Description        string `json:"description"`
	EstimatedCostCents int32  `json:"estimated_cost_cents"`
}

func (h *FleetHandler) ReportDamage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	var req reportDamageRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Description == "" {
		writeBadRequest(w, "description is required")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	report := &domain.DamageReport{
		VehicleUnitID:      id,
		BookingID:          req.BookingID,
		Severity:           domain.DamageSeverity(req.Severity),
		Description:        req.Description,
		EstimatedCostCents: req.EstimatedCostCents,
		ReportedByID:       staffID,
	}
	if err := h.fleetSvc.ReportDamage(r.Context(), report); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *FleetHandler) ListDamageReports(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	reports, err := h.fleetSvc.ListDamageReports(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *FleetHandler) CostSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid unit id")
		return
	}
	summary, err := h.fleetSvc.GetCostSummary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
