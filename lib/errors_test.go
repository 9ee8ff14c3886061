package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{Product: "Paracetamol"}
	assert.Equal(t, "Insufficient stock for: Paracetamol", err.Error())
}

func TestInsufficientStockErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("checkout failed: %w", &InsufficientStockError{Product: "Amoxicillin"})

	var stockErr *InsufficientStockError
	assert.True(t, errors.As(wrapped, &stockErr))
	assert.Equal(t, "Amoxicillin", stockErr.Product)
}

func TestSchemaIncompatibleErrorMessages(t *testing.T) {
	assert.Equal(t,
		`schema incompatible: required table "orders" is missing`,
		(&SchemaIncompatibleError{Table: "orders"}).Error())
	assert.Equal(t,
		"schema incompatible: required column orders.total_amount is missing",
		(&SchemaIncompatibleError{Table: "orders", Column: "total_amount"}).Error())
}

func TestMapPgErrorPassesThroughUnknownErrors(t *testing.T) {
	err := errors.New("something else")
	assert.Equal(t, err, MapPgError(err))
	assert.Nil(t, MapPgError(nil))
}
