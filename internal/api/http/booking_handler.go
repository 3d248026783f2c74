package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/pricing"
	"rentalops-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
	paymentSvc service.PaymentService
}

func NewBookingHandler(bookingSvc service.BookingService, paymentSvc service.PaymentService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, paymentSvc: paymentSvc}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func queryInt(r *http.Request, name string, def int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return def
	}
	return int32(v)
}

type quoteRequest struct {
	VehicleDailyRateCents    int32  `json:"vehicle_daily_rate_cents"`
	ProtectionDailyRateCents int32  `json:"protection_daily_rate_cents"`
	AddOnsTotalCents         int32  `json:"add_ons_total_cents"`
	DeliveryFeeCents         int32  `json:"delivery_fee_cents"`
	DriverAgeBand            string `json:"driver_age_band"`
	StartAt                  string `json:"start_at"`
	EndAt                    string `json:"end_at"`
}

func (q *quoteRequest) window() (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, q.StartAt)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, q.EndAt)
	if err != nil || !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (q *quoteRequest) pricingInput(start, end time.Time) pricing.Input {
	return pricing.Input{
		VehicleDailyRateCents:    q.VehicleDailyRateCents,
		RentalDays:               pricing.ComputeRentalDays(start, end),
		ProtectionDailyRateCents: q.ProtectionDailyRateCents,
		AddOnsTotalCents:         q.AddOnsTotalCents,
		DeliveryFeeCents:         q.DeliveryFeeCents,
		DriverAgeBand:            domain.DriverAgeBand(q.DriverAgeBand),
		PickupDate:               start,
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	start, end, ok := req.window()
	if !ok {
		writeBadRequest(w, "start_at and end_at must be RFC3339 with end after start")
		return
	}
	quote := h.bookingSvc.Quote(r.Context(), req.pricingInput(start, end))
	writeJSON(w, http.StatusOK, quote)
}

type createBookingRequest struct {
	quoteRequest
	CustomerID int32  `json:"customer_id"`
	Category   string `json:"category"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CustomerID <= 0 || req.Category == "" {
		writeBadRequest(w, "customer_id and category are required")
		return
	}
	start, end, ok := req.window()
	if !ok {
		writeBadRequest(w, "start_at and end_at must be RFC3339 with end after start")
		return
	}

	booking, err := h.bookingSvc.CreateBooking(r.Context(), req.CustomerID, req.Category, start, end, req.pricingInput(start, end))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	booking, err := h.bookingSvc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	bookings, total, err := h.bookingSvc.ListByStatus(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.bookingSvc.ConfirmBooking)
}

func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.bookingSvc.ActivateBooking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.statusAction(w, r, h.bookingSvc.CompleteBooking)
}

func (h *BookingHandler) statusAction(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	booking, err := fn(r.Context(), staffID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req cancelRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	booking, err := h.bookingSvc.CancelBooking(r.Context(), staffID, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type modifyRequest struct {
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Preview bool   `json:"preview"`
}

func (h *BookingHandler) Modify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req modifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		writeBadRequest(w, "start_at must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil || !end.After(start) {
		writeBadRequest(w, "end_at must be RFC3339 and after start_at")
		return
	}

	if req.Preview {
		quote, err := h.bookingSvc.RepricePreview(r.Context(), id, start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quote)
		return
	}

	staffID, _ := StaffIDFromContext(r.Context())
	booking, err := h.bookingSvc.ModifyBooking(r.Context(), staffID, id, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type assignUnitRequest struct {
	VehicleUnitID int32 `json:"vehicle_unit_id"`
}

func (h *BookingHandler) AssignUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req assignUnitRequest
	if err := decodeBody(r, &req); err != nil || req.VehicleUnitID <= 0 {
		writeBadRequest(w, "vehicle_unit_id is required")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	booking, err := h.bookingSvc.AssignVehicleUnit(r.Context(), staffID, id, req.VehicleUnitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type addOnRequest struct {
	Name       string `json:"name"`
	PriceCents int32  `json:"price_cents"`
	Quantity   int32  `json:"quantity"`
}

func (h *BookingHandler) AddAddOn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req addOnRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.PriceCents <= 0 {
		writeBadRequest(w, "name and a positive price_cents are required")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	addOn, err := h.bookingSvc.AddAddOn(r.Context(), staffID, id, req.Name, req.PriceCents, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addOn)
}

type recordPaymentRequest struct {
	AmountCents int32  `json:"amount_cents"`
	Type        string `json:"type"`
	Method      string `json:"method"`
	ExternalRef string `json:"external_ref"`
}

func (h *BookingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req recordPaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}

	payment, err := h.paymentSvc.RecordPayment(r.Context(), id, req.AmountCents, domain.PaymentType(req.Type), req.Method, req.ExternalRef)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	payments, err := h.paymentSvc.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *BookingHandler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "payment_id")
	if !ok {
		writeBadRequest(w, "invalid payment id")
		return
	}
	if err := h.paymentSvc.CompletePayment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (h *BookingHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "payment_id")
	if !ok {
		writeBadRequest(w, "invalid payment id")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())
	if err := h.paymentSvc.RefundPayment(r.Context(), staffID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refunded"})
}
