package http

import (
	"net/http"

	"rentalops-backend/internal/service"
	"rentalops-backend/internal/settlement"
)

type SettlementHandler struct {
	settlementSvc service.SettlementService
}

func NewSettlementHandler(settlementSvc service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc}
}

func (h *SettlementHandler) Preview(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	result, err := h.settlementSvc.Preview(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type closeAccountRequest struct {
	ChargesReviewed     bool `json:"charges_reviewed"`
	InspectionComplete  bool `json:"inspection_complete"`
	InvoiceAcknowledged bool `json:"invoice_acknowledged"`
}

func (h *SettlementHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req closeAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	checklist := settlement.Checklist{
		ChargesReviewed:     req.ChargesReviewed,
		InspectionComplete:  req.InspectionComplete,
		InvoiceAcknowledged: req.InvoiceAcknowledged,
	}
	if !checklist.Complete() {
		writeBadRequest(w, "all three closeout confirmations are required")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	result, err := h.settlementSvc.CloseAccount(r.Context(), staffID, bookingID, checklist)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
