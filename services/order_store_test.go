package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs"
	"context"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestInsertOrderRequiresOrdersTable(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{})

	_, err := store.InsertOrder(context.Background(), nil, &OrderDraft{})

	var schemaErr *lib.SchemaIncompatibleError
	if assert.ErrorAs(t, err, &schemaErr) {
		assert.Equal(t, "orders", schemaErr.Table)
	}
}

func TestInsertOrderRequiresTotalAmountColumn(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{OrdersTable: true})

	_, err := store.InsertOrder(context.Background(), nil, &OrderDraft{})

	var schemaErr *lib.SchemaIncompatibleError
	if assert.ErrorAs(t, err, &schemaErr) {
		assert.Equal(t, "total_amount", schemaErr.Column)
	}
}

func TestInsertItemsRequiresSomeProductReference(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{ItemsTable: true})

	err := store.InsertItems(context.Background(), nil, 1, []structs.VerifiedItem{{ProductID: 1}})

	var schemaErr *lib.SchemaIncompatibleError
	if assert.ErrorAs(t, err, &schemaErr) {
		assert.Equal(t, "order_items", schemaErr.Table)
		assert.Equal(t, "product_id", schemaErr.Column)
	}
}

func TestResolveCustomerSkipsWithoutCustomerSchema(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{OrdersTable: true})

	id, err := store.ResolveCustomer(context.Background(), nil, &structs.CheckoutRequest{Email: "juan@example.com"})

	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestUpdateStatusRequiresStatusColumn(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{OrdersTable: true, OrdersOrderNumber: true})

	_, err := store.UpdateStatus(context.Background(), nil, "BTC-1-001", "Confirmed")

	var schemaErr *lib.SchemaIncompatibleError
	if assert.ErrorAs(t, err, &schemaErr) {
		assert.Equal(t, "status", schemaErr.Column)
	}
}

func TestFindByNumberWithoutOrderNumberColumn(t *testing.T) {
	store := NewOrderStore(gecho.NewDefaultLogger(), database.Capabilities{OrdersTable: true})

	_, _, err := store.FindByNumber(context.Background(), nil, "BTC-1-001")

	assert.ErrorIs(t, err, lib.ErrNotFound)
}
