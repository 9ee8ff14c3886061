package lib

import (
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Request errors
var (
	ErrValidation = errors.New("validation failed")
)

// InsufficientStockError is the one failure whose detail is exposed to the
// customer: the product name tells them what to remove from the cart.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return "Insufficient stock for: " + e.Product
}

// SchemaIncompatibleError means the deployment's schema is missing something
// the checkout flow cannot do without. Fatal, raised before any stock
// mutation.
type SchemaIncompatibleError struct {
	Table  string
	Column string
}

func (e *SchemaIncompatibleError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("schema incompatible: required table %q is missing", e.Table)
	}
	return fmt.Sprintf("schema incompatible: required column %s.%s is missing", e.Table, e.Column)
}

func MapPgError(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
