package http

import (
	"net/http"

	"rentalops-backend/internal/cache"
	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/logger"
	"rentalops-backend/internal/repository"
)

// DashboardHandler serves the ops overview counters. Reads go through the
// counter cache when one is configured; misses and cacheless deployments fall
// back to SQL.
type DashboardHandler struct {
	bookingRepo repository.BookingRepository
	depositRepo repository.DepositRepository
	counters    cache.CounterStore
}

func NewDashboardHandler(bookingRepo repository.BookingRepository, depositRepo repository.DepositRepository, counters cache.CounterStore) *DashboardHandler {
	return &DashboardHandler{
		bookingRepo: bookingRepo,
		depositRepo: depositRepo,
		counters:    counters,
	}
}

func (h *DashboardHandler) Counters(w http.ResponseWriter, r *http.Request) {
	if h.counters != nil {
		cached, err := h.counters.GetCounters(r.Context())
		if err != nil {
			logger.Warn("Counter cache read failed, falling back to SQL", "error", err)
		} else if cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	counters, err := h.compute(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.counters != nil {
		if err := h.counters.SetCounters(r.Context(), counters); err != nil {
			logger.Warn("Counter cache write failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, counters)
}

func (h *DashboardHandler) compute(r *http.Request) (*cache.DashboardCounters, error) {
	byStatus, err := h.bookingRepo.CountByStatus(r.Context())
	if err != nil {
		return nil, err
	}
	authorized, err := h.depositRepo.CountAuthorized(r.Context())
	if err != nil {
		return nil, err
	}
	return &cache.DashboardCounters{
		ActiveRentals:   byStatus[domain.BookingStatusActive],
		PendingBookings: byStatus[domain.BookingStatusPending],
		AuthorizedHolds: authorized,
	}, nil
}
