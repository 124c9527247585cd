package services

import (
	"errors"
	"fmt"

	"syndicate_armory/internal/models"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyItems         = errors.New("order must contain at least one item")
	ErrQuantityInvalid    = errors.New("item quantity must be greater than zero")
	ErrPriceInvalid       = errors.New("item price must not be negative")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidTransitionError carries the attempted (from, to) pair for
// diagnostics. It unwraps to ErrInvalidTransition so callers can match it
// with errors.Is.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
