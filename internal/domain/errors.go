package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrVersionConflict    = errors.New("version conflict, record was modified concurrently")
	ErrDuplicateEntry     = errors.New("duplicate ledger entry")
	ErrInsufficientPoints = errors.New("insufficient points balance")
	ErrBookingClosed      = errors.New("booking account already closed")
	ErrHoldNotAuthorized  = errors.New("deposit hold is not in authorized state")
	ErrPaymentImmutable   = errors.New("completed payment cannot be modified")
)
