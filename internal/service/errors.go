package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error kinds returned by the voucher service. Every typed error below
// unwraps to one of them so callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrQuantityExceeded  = errors.New("quantity exceeds reference invoice")
)

// ValidationError reports a request that can never succeed as sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError reports the exact shortage for a product (and batch,
// when one was named) at the time of allocation.
type InsufficientStockError struct {
	Product   string
	Batch     string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	batch := e.Batch
	if batch == "" {
		batch = "any"
	}
	return fmt.Sprintf("insufficient stock for product %s batch %s: available %s, required %s",
		e.Product, batch, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// QuantityExceededError reports a credit or debit note line asking for more
// than remains on the invoice it references.
type QuantityExceededError struct {
	Product   string
	Batch     string
	Origin    string // "sales" or "purchase"
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *QuantityExceededError) Error() string {
	batch := e.Batch
	if batch == "" {
		batch = "any"
	}
	return fmt.Sprintf("quantity for product %s batch %s exceeds %s quantity: available %s, requested %s",
		e.Product, batch, e.Origin, e.Available.String(), e.Requested.String())
}

func (e *QuantityExceededError) Unwrap() error { return ErrQuantityExceeded }
