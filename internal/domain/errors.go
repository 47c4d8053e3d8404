package domain

import (
	"errors"
	"fmt"
)

// Business-rule failures inside the checkout transaction are typed error
// values rather than bare strings: the transaction driver rolls back on any
// non-nil error and the HTTP layer decides the status code with errors.As.

var (
	ErrNotFound           = errors.New("no encontrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrEmailTaken         = errors.New("el email ya está registrado")
)

// ProductUnavailableError reports a cart line that references a product that
// does not exist or is inactive.
type ProductUnavailableError struct {
	ProductID int
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("Producto con ID %d no encontrado", e.ProductID)
}

// InsufficientStockError reports a cart line whose quantity exceeds the stock
// observed under lock, naming the product and what is actually available.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuficiente para %s. Disponibles: %d", e.ProductName, e.Available)
}

// ValidationError covers request-shape failures detected before any storage
// access (missing fields, malformed email, empty cart).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsBusinessError reports whether err is a checkout business-rule violation,
// i.e. the client should see a 400 with the error text rather than a generic
// storage failure.
func IsBusinessError(err error) bool {
	var unavailable *ProductUnavailableError
	var stock *InsufficientStockError
	var validation *ValidationError
	return errors.As(err, &unavailable) || errors.As(err, &stock) || errors.As(err, &validation)
}
