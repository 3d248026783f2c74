package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalops-backend/internal/domain"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Booking      *BookingHandler
	Deposit      *DepositHandler
	Settlement   *SettlementHandler
	Loyalty      *LoyaltyHandler
	Fleet        *FleetHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
}

// NewRouter wires all routes under /api/v1. Everything except login, token
// refresh, the health check and the processor webhook requires a valid staff
// access token.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	// The processor authenticates webhooks with its own signature scheme, not
	// staff tokens.
	api.HandleFunc("/webhooks/deposit", h.Deposit.Webhook).Methods(http.MethodPost)

	// Authenticated
	s := api.NewRoute().Subrouter()
	s.Use(auth.Handler)

	manager := RequireRole(domain.StaffRoleManager)

	// Bookings
	s.HandleFunc("/bookings/quote", h.Booking.Quote).Methods(http.MethodPost)
	s.HandleFunc("/bookings", h.Booking.Create).Methods(http.MethodPost)
	s.HandleFunc("/bookings", h.Booking.List).Methods(http.MethodGet)
	s.HandleFunc("/bookings/{id:[0-9]+}", h.Booking.Get).Methods(http.MethodGet)
	s.HandleFunc("/bookings/{id:[0-9]+}", h.Booking.Modify).Methods(http.MethodPatch)
	s.HandleFunc("/bookings/{id:[0-9]+}/confirm", h.Booking.Confirm).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/activate", h.Booking.Activate).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/complete", h.Booking.Complete).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.Booking.Cancel).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/assign-unit", h.Booking.AssignUnit).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/add-ons", h.Booking.AddAddOn).Methods(http.MethodPost)

	// Payments
	s.HandleFunc("/bookings/{id:[0-9]+}/payments", h.Booking.RecordPayment).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/payments", h.Booking.ListPayments).Methods(http.MethodGet)
	s.HandleFunc("/payments/{payment_id:[0-9]+}/complete", h.Booking.CompletePayment).Methods(http.MethodPost)
	s.Handle("/payments/{payment_id:[0-9]+}/refund", manager(http.HandlerFunc(h.Booking.RefundPayment))).Methods(http.MethodPost)

	// Deposit holds
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit", h.Deposit.CreateHold).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit", h.Deposit.GetHold).Methods(http.MethodGet)
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit/capture", h.Deposit.Capture).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit/release", h.Deposit.Release).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit/cancel", h.Deposit.Cancel).Methods(http.MethodPost)
	s.HandleFunc("/bookings/{id:[0-9]+}/deposit/ledger", h.Deposit.ListLedger).Methods(http.MethodGet)

	// Settlement
	s.HandleFunc("/bookings/{id:[0-9]+}/settlement", h.Settlement.Preview).Methods(http.MethodGet)
	s.HandleFunc("/bookings/{id:[0-9]+}/close", h.Settlement.CloseAccount).Methods(http.MethodPost)

	// Loyalty
	s.HandleFunc("/customers/{customer_id:[0-9]+}/points", h.Loyalty.Balance).Methods(http.MethodGet)
	s.HandleFunc("/customers/{customer_id:[0-9]+}/points/history", h.Loyalty.History).Methods(http.MethodGet)
	s.HandleFunc("/customers/{customer_id:[0-9]+}/points/award", h.Loyalty.Award).Methods(http.MethodPost)
	s.HandleFunc("/customers/{customer_id:[0-9]+}/points/redeem", h.Loyalty.Redeem).Methods(http.MethodPost)
	s.HandleFunc("/customers/{customer_id:[0-9]+}/points/reverse", h.Loyalty.Reverse).Methods(http.MethodPost)
	s.Handle("/customers/{customer_id:[0-9]+}/points/adjust", manager(http.HandlerFunc(h.Loyalty.Adjust))).Methods(http.MethodPost)

	// Fleet
	s.HandleFunc("/fleet/units", h.Fleet.RegisterUnit).Methods(http.MethodPost)
	s.HandleFunc("/fleet/units", h.Fleet.ListUnits).Methods(http.MethodGet)
	s.HandleFunc("/fleet/units/{id:[0-9]+}", h.Fleet.GetUnit).Methods(http.MethodGet)
	s.Handle("/fleet/units/{id:[0-9]+}/retire", manager(http.HandlerFunc(h.Fleet.RetireUnit))).Methods(http.MethodPost)
	s.HandleFunc("/fleet/units/{id:[0-9]+}/expenses", h.Fleet.RecordExpense).Methods(http.MethodPost)
	s.HandleFunc("/fleet/units/{id:[0-9]+}/expenses", h.Fleet.ListExpenses).Methods(http.MethodGet)
	s.HandleFunc("/fleet/units/{id:[0-9]+}/damage-reports", h.Fleet.ReportDamage).Methods(http.MethodPost)
	s.HandleFunc("/fleet/units/{id:[0-9]+}/damage-reports", h.Fleet.ListDamageReports).Methods(http.MethodGet)
	s.HandleFunc("/fleet/units/{id:[0-9]+}/costs", h.Fleet.CostSummary).Methods(http.MethodGet)

	// Dashboard and notifications
	s.HandleFunc("/dashboard/counters", h.Dashboard.Counters).Methods(http.MethodGet)
	s.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	s.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	return r
}
