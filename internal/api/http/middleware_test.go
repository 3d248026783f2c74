package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/security"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("test-secret-that-is-long-enough-000000", time.Hour, 7*24*time.Hour)
	mw := NewAuthMiddleware(tokens)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staffID, ok := StaffIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int32(7), staffID)
		role, ok := RoleFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, domain.StaffRoleAgent, role)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("ValidAccessToken", func(t *testing.T) {
		token, err := tokens.GenerateAccessToken(7, "agent@rentalops.local", "AGENT")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw.Handler(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		rec := httptest.NewRecorder()

		mw.Handler(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RefreshTokenRejected", func(t *testing.T) {
		token, err := tokens.GenerateRefreshToken(7, "agent@rentalops.local")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		mw.Handler(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequireRole(domain.StaffRoleManager)

	serve := func(role domain.StaffRole) *httptest.ResponseRecorder {
		tokens := security.NewTokenManager("test-secret-that-is-long-enough-000000", time.Hour, 7*24*time.Hour)
		mw := NewAuthMiddleware(tokens)
		token, _ := tokens.GenerateAccessToken(7, "x@rentalops.local", string(role))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/1/refund", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		mw.Handler(guard(okHandler)).ServeHTTP(rec, req)
		return rec
	}

	t.Run("ManagerAllowed", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(domain.StaffRoleManager).Code)
	})

	t.Run("AdminAlwaysAllowed", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, serve(domain.StaffRoleAdmin).Code)
	})

	t.Run("AgentForbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(domain.StaffRoleAgent).Code)
	})
}
