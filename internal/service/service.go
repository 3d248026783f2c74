package service

import (
	"context"
	"time"

	"rentalops-backend/internal/domain"
	"rentalops-backend/internal/pricing"
	"rentalops-backend/internal/settlement"
)

type BookingService interface {
	// Quote prices a prospective rental without touching storage.
	Quote(ctx context.Context, in pricing.Input) pricing.Quote
	CreateBooking(ctx context.Context, customerID int32, category string, startAt, endAt time.Time, in pricing.Input) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int32) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error)
	ActivateBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, staffID, bookingID int32) (*domain.Booking, error)
	CancelBooking(ctx context.Context, staffID, bookingID int32, reason string) (*domain.Booking, error)
	// RepricePreview recomputes the quote for modified dates/rates without
	// committing; ModifyBooking commits the same computation under the
	// booking's version guard.
	RepricePreview(ctx context.Context, bookingID int32, startAt, endAt time.Time) (*pricing.Quote, error)
	ModifyBooking(ctx context.Context, staffID, bookingID int32, startAt, endAt time.Time) (*domain.Booking, error)
	AssignVehicleUnit(ctx context.Context, staffID, bookingID, unitID int32) (*domain.Booking, error)
	AddAddOn(ctx context.Context, staffID, bookingID int32, name string, priceCents, quantity int32) (*domain.AddOn, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
}

type PaymentService interface {
	RecordPayment(ctx context.Context, bookingID, amountCents int32, pType domain.PaymentType, method, externalRef string) (*domain.Payment, error)
	CompletePayment(ctx context.Context, paymentID int32) error
	RefundPayment(ctx context.Context, staffID, paymentID int32) error
	ListPayments(ctx context.Context, bookingID int32) ([]domain.Payment, error)
}

// ProcessorEvent is one webhook notification from the payment processor
// about a deposit hold. EventID deduplicates redeliveries.
type ProcessorEvent struct {
	EventID         string
	PaymentIntentID string
	Type            ProcessorEventType
	AmountCents     int32
	ChargeID        string
	FailureReason   string
	AuthorizedAt    *time.Time
	ExpiresAt       *time.Time
}

type ProcessorEventType string

const (
	ProcessorEventAuthorizing ProcessorEventType = "payment_intent.processing"
	ProcessorEventAuthorized  ProcessorEventType = "payment_intent.amount_capturable_updated"
	ProcessorEventCaptured    ProcessorEventType = "payment_intent.succeeded"
	ProcessorEventReleased    ProcessorEventType = "payment_intent.canceled"
	ProcessorEventFailed      ProcessorEventType = "payment_intent.payment_failed"
	ProcessorEventExpired     ProcessorEventType = "payment_intent.expired"
)

type DepositService interface {
	// CreateHold opens the lifecycle for a booking, starting at
	// requires_payment with the processor intent reference attached.
	CreateHold(ctx context.Context, bookingID, amountCents int32, paymentIntentID, paymentMethodID string) (*domain.DepositHold, error)
	GetHold(ctx context.Context, bookingID int32) (*domain.DepositHold, domain.ExpiryInfo, error)
	// InitiateCapture and InitiateRelease move an authorized hold into the
	// corresponding in-flight state and append a ledger entry. The processor
	// confirms completion via webhook.
	InitiateCapture(ctx context.Context, staffID, bookingID, amountCents int32) (*domain.DepositHold, error)
	InitiateRelease(ctx context.Context, staffID, bookingID int32) (*domain.DepositHold, error)
	CancelHold(ctx context.Context, staffID, bookingID int32, reason string) (*domain.DepositHold, error)
	// HandleProcessorEvent applies one webhook event, rejecting transitions
	// the state machine does not allow.
	HandleProcessorEvent(ctx context.Context, ev ProcessorEvent) (*domain.DepositHold, error)
	ListLedger(ctx context.Context, bookingID int32) ([]domain.DepositLedgerEntry, error)
}

type SettlementService interface {
	// Preview computes the closeout figures for a booking, refusing to
	// produce partial numbers if any upstream read fails.
	Preview(ctx context.Context, bookingID int32) (*settlement.Result, error)
	// CloseAccount finalizes billing: checklist must be complete, the
	// invoice reference is persisted first, then deposit disposition is
	// initiated as separate operations.
	CloseAccount(ctx context.Context, staffID, bookingID int32, checklist settlement.Checklist) (*CloseoutResult, error)
}

// CloseoutResult reports what closure did and whether deposit disposition
// needs manual follow-up.
type CloseoutResult struct {
	Booking           *domain.Booking    `json:"booking"`
	Settlement        *settlement.Result `json:"settlement"`
	InvoiceRef        string             `json:"invoice_ref"`
	DepositActioned   bool               `json:"deposit_actioned"`
	ReconcileManually bool               `json:"reconcile_manually"`
	ReconcileReason   string             `json:"reconcile_reason,omitempty"`
}

type LoyaltyService interface {
	Award(ctx context.Context, customerID, bookingID int32, bookingTotalCents, taxCents, addOnsCents int32) (*domain.PointsAwardResult, error)
	Redeem(ctx context.Context, customerID, bookingID int32, pointsToRedeem int32, bookingTotalCents int32) (*domain.PointsRedeemResult, error)
	Reverse(ctx context.Context, customerID, bookingID int32, reason string) (*domain.PointsAwardResult, error)
	// Adjust is privileged: manager-initiated manual correction.
	Adjust(ctx context.Context, staffID, customerID int32, points int32, notes string) (int32, error)
	GetBalance(ctx context.Context, customerID int32) (int32, error)
	GetHistory(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.PointsLedgerEntry, int32, error)
}

type FleetService interface {
	RegisterUnit(ctx context.Context, u *domain.VehicleUnit) error
	GetUnit(ctx context.Context, id int32) (*domain.VehicleUnit, error)
	ListUnits(ctx context.Context, category string, status domain.VehicleUnitStatus, page, pageSize int32) ([]domain.VehicleUnit, int32, error)
	RetireUnit(ctx context.Context, staffID, unitID int32) error
	RecordExpense(ctx context.Context, e *domain.VehicleExpense) error
	ReportDamage(ctx context.Context, d *domain.DamageReport) error
	GetCostSummary(ctx context.Context, unitID int32) (*domain.VehicleCostSummary, error)
	ListExpenses(ctx context.Context, unitID int32) ([]domain.VehicleExpense, error)
	ListDamageReports(ctx context.Context, unitID int32) ([]domain.DamageReport, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (access, refresh string, staff *domain.StaffUser, err error)
	Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

type NotificationService interface {
	Notify(ctx context.Context, staffUserID int32, title, message string, attrs map[string]string) error
	List(ctx context.Context, staffUserID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, staffUserID, notificationID int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name string, bookingID int32, totalCents int32) error
	SendDepositCaptureNotice(ctx context.Context, email, name string, bookingID int32, capturedCents, releasedCents int32) error
	SendDepositReleaseNotice(ctx context.Context, email, name string, bookingID int32, releasedCents int32) error
	SendCloseoutInvoice(ctx context.Context, email, name string, bookingID int32, invoiceRef string, finalAmountDueCents int32) error
	SendPointsAwardNotice(ctx context.Context, email, name string, points int32, balance int32) error
}
