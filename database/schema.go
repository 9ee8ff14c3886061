package database

import (
	"context"
	"sync"

	"github.com/uptrace/bun"
)

// SchemaInspector answers "does this table/column exist" with parameterized
// catalog lookups, memoized until Reset. It is used by the evolution step,
// which must re-probe after its own DDL, and by the startup capability
// resolution. It is not consulted per request.
type SchemaInspector struct {
	db bun.IDB

	mu      sync.Mutex
	tables  map[string]bool
	columns map[string]bool
}

func NewSchemaInspector(db bun.IDB) *SchemaInspector {
	return &SchemaInspector{
		db:      db,
		tables:  map[string]bool{},
		columns: map[string]bool{},
	}
}

// HasTable reports whether the table exists in the current schema.
func (si *SchemaInspector) HasTable(ctx context.Context, table string) (bool, error) {
	si.mu.Lock()
	if cached, ok := si.tables[table]; ok {
		si.mu.Unlock()
		return cached, nil
	}
	si.mu.Unlock()

	var exists bool
	err := si.db.NewRaw(
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = ?
		)`, table,
	).Scan(ctx, &exists)
	if err != nil {
		return false, err
	}

	si.mu.Lock()
	si.tables[table] = exists
	si.mu.Unlock()
	return exists, nil
}

// HasColumn reports whether the column exists on the table.
func (si *SchemaInspector) HasColumn(ctx context.Context, table, column string) (bool, error) {
	key := table + "." + column

	si.mu.Lock()
	if cached, ok := si.columns[key]; ok {
		si.mu.Unlock()
		return cached, nil
	}
	si.mu.Unlock()

	var exists bool
	err := si.db.NewRaw(
		`SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ? AND column_name = ?
		)`, table, column,
	).Scan(ctx, &exists)
	if err != nil {
		return false, err
	}

	si.mu.Lock()
	si.columns[key] = exists
	si.mu.Unlock()
	return exists, nil
}

// Reset invalidates the memo. Must be called after any DDL so subsequent
// lookups reflect the new schema.
func (si *SchemaInspector) Reset() {
	si.mu.Lock()
	si.tables = map[string]bool{}
	si.columns = map[string]bool{}
	si.mu.Unlock()
}

// Capabilities is the immutable answer to "what does this deployment's schema
// support", resolved once at startup after the evolution step and passed by
// value into the checkout service. Checkout never probes the catalog itself.
type Capabilities struct {
	OrdersTable         bool
	OrdersOrderNumber   bool
	OrdersCustomerID    bool
	OrdersCustomerName  bool
	OrdersLegacyName    bool // old deployments use a plain "name" column
	OrdersEmail         bool
	OrdersPhone         bool
	OrdersAddress       bool
	OrdersTotalAmount   bool
	OrdersStatus        bool
	OrdersPaymentMethod bool
	OrdersDiscountFlag  bool
	OrdersRxStatus      bool
	OrdersUpdatedAt     bool

	ItemsTable            bool
	ItemsProductID        bool
	ItemsLegacyMedicineID bool
	ItemsProductName      bool
	ItemsSubtotal         bool

	CustomersTable     bool
	LoyaltyTables      bool
	NotificationsTable bool
}

// ResolveCapabilities probes every optional table and column the checkout
// flow can make use of.
func ResolveCapabilities(ctx context.Context, insp *SchemaInspector) (Capabilities, error) {
	var caps Capabilities
	var err error

	probeTable := func(dst *bool, table string) {
		if err != nil {
			return
		}
		*dst, err = insp.HasTable(ctx, table)
	}
	probeColumn := func(dst *bool, table, column string) {
		if err != nil {
			return
		}
		*dst, err = insp.HasColumn(ctx, table, column)
	}

	probeTable(&caps.OrdersTable, "orders")
	probeColumn(&caps.OrdersOrderNumber, "orders", "order_number")
	probeColumn(&caps.OrdersCustomerID, "orders", "customer_id")
	probeColumn(&caps.OrdersCustomerName, "orders", "customer_name")
	probeColumn(&caps.OrdersLegacyName, "orders", "name")
	probeColumn(&caps.OrdersEmail, "orders", "email")
	probeColumn(&caps.OrdersPhone, "orders", "phone")
	probeColumn(&caps.OrdersAddress, "orders", "address")
	probeColumn(&caps.OrdersTotalAmount, "orders", "total_amount")
	probeColumn(&caps.OrdersStatus, "orders", "status")
	probeColumn(&caps.OrdersPaymentMethod, "orders", "payment_method")
	probeColumn(&caps.OrdersDiscountFlag, "orders", "discount_claimed")
	probeColumn(&caps.OrdersRxStatus, "orders", "rx_status")
	probeColumn(&caps.OrdersUpdatedAt, "orders", "updated_at")

	probeTable(&caps.ItemsTable, "order_items")
	probeColumn(&caps.ItemsProductID, "order_items", "product_id")
	probeColumn(&caps.ItemsLegacyMedicineID, "order_items", "medicine_id")
	probeColumn(&caps.ItemsProductName, "order_items", "product_name")
	probeColumn(&caps.ItemsSubtotal, "order_items", "subtotal")

	probeTable(&caps.CustomersTable, "customers")
	probeTable(&caps.NotificationsTable, "pos_notifications")

	var members, journal bool
	probeTable(&members, "loyalty_members")
	probeTable(&journal, "loyalty_points_log")
	caps.LoyaltyTables = members && journal

	if err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}
