package http

import (
	"net/http"

	"rentalops-backend/internal/service"
)

type LoyaltyHandler struct {
	loyaltySvc service.LoyaltyService
}

func NewLoyaltyHandler(loyaltySvc service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltySvc: loyaltySvc}
}

type awardRequest struct {
	BookingID         int32 `json:"booking_id"`
	BookingTotalCents int32 `json:"booking_total_cents"`
	TaxCents          int32 `json:"tax_cents"`
	AddOnsCents       int32 `json:"add_ons_cents"`
}

func (h *LoyaltyHandler) Award(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	var req awardRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.BookingID <= 0 || req.BookingTotalCents <= 0 {
		writeBadRequest(w, "booking_id and a positive booking_total_cents are required")
		return
	}

	result, err := h.loyaltySvc.Award(r.Context(), customerID, req.BookingID, req.BookingTotalCents, req.TaxCents, req.AddOnsCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type redeemRequest struct {
	BookingID         int32 `json:"booking_id"`
	PointsToRedeem    int32 `json:"points_to_redeem"`
	BookingTotalCents int32 `json:"booking_total_cents"`
}

func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	var req redeemRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.PointsToRedeem <= 0 {
		writeBadRequest(w, "points_to_redeem must be positive")
		return
	}

	result, err := h.loyaltySvc.Redeem(r.Context(), customerID, req.BookingID, req.PointsToRedeem, req.BookingTotalCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type reverseRequest struct {
	BookingID int32  `json:"booking_id"`
	Reason    string `json:"reason"`
}

func (h *LoyaltyHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	var req reverseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.BookingID <= 0 {
		writeBadRequest(w, "booking_id is required")
		return
	}

	result, err := h.loyaltySvc.Reverse(r.Context(), customerID, req.BookingID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type adjustRequest struct {
	Points int32  `json:"points"`
	Notes  string `json:"notes"`
}

func (h *LoyaltyHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	var req adjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Points == 0 {
		writeBadRequest(w, "points must be non-zero")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	balance, err := h.loyaltySvc.Adjust(r.Context(), staffID, customerID, req.Points, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"balance": balance})
}

func (h *LoyaltyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	balance, err := h.loyaltySvc.GetBalance(r.Context(), customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"balance": balance})
}

func (h *LoyaltyHandler) History(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(r, "customer_id")
	if !ok {
		writeBadRequest(w, "invalid customer id")
		return
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	entries, total, err := h.loyaltySvc.GetHistory(r.Context(), customerID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
		"page":    page,
	})
}
