package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNotCancellable      = errors.New("order cannot be cancelled at this stage")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrEmptyOrder          = errors.New("order has no items")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrTransient           = errors.New("transient infrastructure error")
)

// NotAvailableError names the product that failed the availability check.
func NotAvailableError(productID string) error {
	return fmt.Errorf("product %s: %w", productID, ErrProductNotAvailable)
}

// InsufficientStockError names the product that ran out.
func InsufficientStockError(productID string) error {
	return fmt.Errorf("product %s: %w", productID, ErrInsufficientStock)
}
