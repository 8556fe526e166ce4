package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrPlotUnavailable  = errors.New("plot already has an active booking")
	ErrBookingDeleted   = errors.New("booking is deleted")
	ErrBookingCancelled = errors.New("booking is cancelled")

	ErrInvalidRecoveryCode = errors.New("invalid or expired recovery code")
)

// ExceedsBalanceError is returned when a payment would push the booking
// ledger past the total amount. MaxAllowed is the largest amount that the
// ledger can still accept.
type ExceedsBalanceError struct {
	MaxAllowed float64
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance, maximum allowed is %.2f", e.MaxAllowed)
}
