package http

import (
	"net/http"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/service"
)

type DepositHandler struct {
	depositSvc service.DepositService
}

func NewDepositHandler(depositSvc service.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

type createHoldRequest struct {
	AmountCents     int32  `json:"amount_cents"`
	PaymentIntentID string `json:"payment_intent_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *DepositHandler) CreateHold(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req createHoldRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}

	hold, err := h.depositSvc.CreateHold(r.Context(), bookingID, req.AmountCents, req.PaymentIntentID, req.PaymentMethodID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, hold)
}

type holdResponse struct {
	Hold   *domain.DepositHold `json:"hold"`
	Expiry domain.ExpiryInfo   `json:"expiry"`
	// HasProcessorHold gates whether legacy manual deposit tracking applies.
	HasProcessorHold bool `json:"has_processor_hold"`
}

func (h *DepositHandler) GetHold(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	hold, expiry, err := h.depositSvc.GetHold(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holdResponse{
		Hold:             hold,
		Expiry:           expiry,
		HasProcessorHold: hold.Status.HasProcessorHold(),
	})
}

type captureRequest struct {
	AmountCents int32 `json:"amount_cents"`
}

func (h *DepositHandler) Capture(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	var req captureRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AmountCents <= 0 {
		writeBadRequest(w, "amount_cents must be positive")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	hold, err := h.depositSvc.InitiateCapture(r.Context(), staffID, bookingID, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

func (h *DepositHandler) Release(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	staffID, _ := StaffIDFromContext(r.Context())

	hold, err := h.depositSvc.InitiateRelease(r.Context(), staffID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

func (h *DepositHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
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

	hold, err := h.depositSvc.CancelHold(r.Context(), staffID, bookingID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hold)
}

func (h *DepositHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid booking id")
		return
	}
	entries, err := h.depositSvc.ListLedger(r.Context(), bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type webhookRequest struct {
	EventID         string `json:"event_id"`
	Type            string `json:"type"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int32  `json:"amount_cents"`
	ChargeID        string `json:"charge_id"`
	FailureReason   string `json:"failure_reason"`
	AuthorizedAt    string `json:"authorized_at"`
	ExpiresAt       string `json:"expires_at"`
}

// Webhook ingests processor events. Out-of-order and replayed deliveries are
// acknowledged with 200 so the processor stops retrying; only malformed
// payloads are rejected.
func (h *DepositHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.PaymentIntentID == "" || req.Type == "" {
		writeBadRequest(w, "payment_intent_id and type are required")
		return
	}

	ev := service.ProcessorEvent{
		EventID:         req.EventID,
		PaymentIntentID: req.PaymentIntentID,
		Type:            service.ProcessorEventType(req.Type),
		AmountCents:     req.AmountCents,
		ChargeID:        req.ChargeID,
		FailureReason:   req.FailureReason,
	}
	if req.AuthorizedAt != "" {
		if t, err := time.Parse(time.RFC3339, req.AuthorizedAt); err == nil {
			ev.AuthorizedAt = &t
		}
	}
	if req.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, req.ExpiresAt); err == nil {
			ev.ExpiresAt = &t
		}
	}

	hold, err := h.depositSvc.HandleProcessorEvent(r.Context(), ev)
	if err != nil {
		logger.Warn("Processor event not applied", "event_id", req.EventID, "type", req.Type, "error", err)
		// Acknowledge so the processor does not redeliver forever.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "applied", "hold_status": hold.Status})
}
