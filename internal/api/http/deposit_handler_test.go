package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentalops-backend/internal/domain"
)

func TestDepositHandler_Webhook(t *testing.T) {
	t.Run("AppliedEvent", func(t *testing.T) {
		svc := new(MockDepositService)
		handler := NewDepositHandler(svc)

		svc.On("HandleProcessorEvent", mock.Anything, mock.Anything).Return(
			&domain.DepositHold{ID: 9, Status: domain.HoldStatusAuthorized}, nil)

		body, _ := json.Marshal(map[string]any{
			"event_id":          "evt_1",
			"type":              "payment_intent.amount_capturable_updated",
			"payment_intent_id": "pi_123",
			"amount_cents":      50000,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/deposit", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Webhook(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var res map[string]any
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "applied", res["status"])
		assert.Equal(t, "AUTHORIZED", res["hold_status"])
	})

	t.Run("InvalidTransitionAcknowledgedAsIgnored", func(t *testing.T) {
		// Replays must be ACKed with 200 or the processor keeps redelivering.
		svc := new(MockDepositService)
		handler := NewDepositHandler(svc)

		svc.On("HandleProcessorEvent", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidTransition)

		body, _ := json.Marshal(map[string]any{
			"event_id":          "evt_2",
			"type":              "payment_intent.succeeded",
			"payment_intent_id": "pi_123",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/deposit", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Webhook(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var res map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "ignored", res["status"])
	})

	t.Run("MissingIntentRejected", func(t *testing.T) {
		svc := new(MockDepositService)
		handler := NewDepositHandler(svc)

		body, _ := json.Marshal(map[string]any{"event_id": "evt_3", "type": "payment_intent.succeeded"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/deposit", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Webhook(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "HandleProcessorEvent", mock.Anything, mock.Anything)
	})
}

func TestDepositHandler_Capture(t *testing.T) {
	t.Run("NotAuthorizedMapsToConflict", func(t *testing.T) {
		svc := new(MockDepositService)
		handler := NewDepositHandler(svc)

		svc.On("InitiateCapture", mock.Anything, int32(0), int32(1), int32(20000)).Return(nil, domain.ErrHoldNotAuthorized)

		body, _ := json.Marshal(map[string]any{"amount_cents": 20000})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/deposit/capture", bytes.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()

		handler.Capture(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		svc := new(MockDepositService)
		handler := NewDepositHandler(svc)

		body, _ := json.Marshal(map[string]any{"amount_cents": 0})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/1/deposit/capture", bytes.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"id": "1"})
		rec := httptest.NewRecorder()

		handler.Capture(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "InitiateCapture", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
