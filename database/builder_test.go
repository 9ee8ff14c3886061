package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertBuilderAlignsColumnsAndValues(t *testing.T) {
	sql, args := NewInsert("orders").
		Set("order_number", "BTC-1-001").
		Set("customer_name", "Juan").
		Set("total_amount", 10.0).
		SQL()

	assert.Equal(t, "INSERT INTO orders (order_number, customer_name, total_amount) VALUES (?, ?, ?)", sql)
	assert.Equal(t, []any{"BTC-1-001", "Juan", 10.0}, args)
}

func TestInsertBuilderSetIf(t *testing.T) {
	b := NewInsert("orders").
		Set("customer_name", "Juan").
		SetIf(false, "email", "juan@example.com").
		SetIf(true, "status", "pending")

	sql, args := b.SQL()

	assert.Equal(t, "INSERT INTO orders (customer_name, status) VALUES (?, ?)", sql)
	assert.Equal(t, []any{"Juan", "pending"}, args)
	assert.False(t, b.Has("email"))
	assert.True(t, b.Has("status"))
	assert.Equal(t, 2, b.Len())
}

func TestInsertBuilderReturning(t *testing.T) {
	sql, args := NewInsert("orders").
		Set("customer_name", "Juan").
		Returning("id").
		SQL()

	assert.Equal(t, "INSERT INTO orders (customer_name) VALUES (?) RETURNING id", sql)
	assert.Len(t, args, 1)
}

func TestInsertBuilderSkippedColumnNeverShiftsBindings(t *testing.T) {
	// A dropped middle column must drop its value with it.
	_, args := NewInsert("order_items").
		Set("order_id", int64(1)).
		SetIf(false, "product_name", "Paracetamol").
		Set("quantity", 2).
		SQL()

	assert.Equal(t, []any{int64(1), 2}, args)
}
