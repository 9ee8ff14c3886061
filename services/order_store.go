package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs"
	"botica_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OrderDraft is everything the persister needs to build the header insert.
type OrderDraft struct {
	OrderNumber     string
	CustomerID      *int64
	CustomerName    string
	Email           string
	Phone           string
	Address         string
	TotalAmount     float64
	PaymentMethod   string
	DiscountClaimed bool
}

// OrderStore persists the order header and its line items against whatever
// columns the deployment actually has, and resolves customer identities when
// the schema has a customer concept at all.
type OrderStore struct {
	logger *gecho.Logger
	caps   database.Capabilities
}

func NewOrderStore(logger *gecho.Logger, caps database.Capabilities) *OrderStore {
	return &OrderStore{
		logger: logger,
		caps:   caps,
	}
}

// ResolveCustomer finds or lazily creates a customer row by case-sensitive
// exact email match. Returns nil when the schema has no customer concept;
// callers must treat that as "skip customer linkage", not as an error.
func (s *OrderStore) ResolveCustomer(ctx context.Context, tx bun.IDB, req *structs.CheckoutRequest) (*int64, error) {
	if !s.caps.CustomersTable || !s.caps.OrdersCustomerID {
		return nil, nil
	}

	email := req.Email
	if email == "" {
		// Guests still need a row; synthesize a unique placeholder address.
		email = fmt.Sprintf("guest-%s@botica.local", uuid.NewString())
	}

	var customer tables.Customer
	err := tx.NewSelect().
		Model(&customer).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return &customer.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, lib.MapPgError(err)
	}

	customer = tables.Customer{
		Name:      req.CustomerName,
		Email:     email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now(),
	}
	if _, err := tx.NewInsert().Model(&customer).Returning("id").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	s.logger.Info("Customer created for order",
		gecho.Field("customer_id", customer.ID),
		gecho.Field("guest", req.Email == ""))

	return &customer.ID, nil
}

// InsertOrder builds and executes the header insert from the intersection of
// columns the schema supports and fields checkout can supply. Deployments
// that carry both the legacy and current name of a column get both populated
// so legacy consumers stay functional.
func (s *OrderStore) InsertOrder(ctx context.Context, tx bun.IDB, draft *OrderDraft) (int64, error) {
	caps := s.caps

	if !caps.OrdersTable {
		return 0, &lib.SchemaIncompatibleError{Table: "orders"}
	}
	if !caps.OrdersTotalAmount {
		return 0, &lib.SchemaIncompatibleError{Table: "orders", Column: "total_amount"}
	}

	now := time.Now()

	b := database.NewInsert("orders").
		SetIf(caps.OrdersOrderNumber, "order_number", draft.OrderNumber).
		SetIf(caps.OrdersCustomerName, "customer_name", draft.CustomerName).
		SetIf(caps.OrdersLegacyName, "name", draft.CustomerName).
		SetIf(caps.OrdersPhone, "phone", draft.Phone).
		SetIf(caps.OrdersAddress, "address", draft.Address).
		Set("total_amount", draft.TotalAmount).
		SetIf(caps.OrdersPaymentMethod, "payment_method", draft.PaymentMethod).
		SetIf(caps.OrdersStatus, "status", string(tables.OrderStatusPending)).
		SetIf(caps.OrdersDiscountFlag, "discount_claimed", draft.DiscountClaimed).
		SetIf(caps.OrdersUpdatedAt, "updated_at", now).
		Returning("id")

	if caps.OrdersCustomerID && draft.CustomerID != nil {
		b.Set("customer_id", *draft.CustomerID)
	}
	if caps.OrdersEmail {
		if draft.Email != "" {
			b.Set("email", draft.Email)
		} else {
			b.Set("email", nil) // nullable for guest orders
		}
	}

	stmt, args := b.SQL()

	var orderID int64
	if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&orderID); err != nil {
		return 0, lib.MapPgError(err)
	}

	return orderID, nil
}

// InsertItems persists the line-item snapshots. The legacy medicine_id column
// keeps being populated alongside product_id where it exists.
func (s *OrderStore) InsertItems(ctx context.Context, tx bun.IDB, orderID int64, items []structs.VerifiedItem) error {
	caps := s.caps

	if !caps.ItemsTable {
		return &lib.SchemaIncompatibleError{Table: "order_items"}
	}
	if !caps.ItemsProductID && !caps.ItemsLegacyMedicineID {
		return &lib.SchemaIncompatibleError{Table: "order_items", Column: "product_id"}
	}

	for _, item := range items {
		b := database.NewInsert("order_items").
			Set("order_id", orderID).
			SetIf(caps.ItemsProductID, "product_id", item.ProductID).
			SetIf(caps.ItemsLegacyMedicineID, "medicine_id", item.ProductID).
			SetIf(caps.ItemsProductName, "product_name", item.Name).
			Set("quantity", item.Quantity).
			Set("price", item.Price).
			SetIf(caps.ItemsSubtotal, "subtotal", item.Subtotal)

		stmt, args := b.SQL()
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return lib.MapPgError(err)
		}
	}

	return nil
}

// FindByNumber loads an order summary and its items, selecting only the
// columns this deployment has.
func (s *OrderStore) FindByNumber(ctx context.Context, db bun.IDB, orderNumber string) (*tables.Order, []tables.OrderItem, error) {
	caps := s.caps

	if !caps.OrdersTable || !caps.OrdersOrderNumber {
		return nil, nil, lib.ErrNotFound
	}

	cols := []string{"id", "total_amount", "created_at"}
	if caps.OrdersOrderNumber {
		cols = append(cols, "order_number")
	}
	if caps.OrdersCustomerName {
		cols = append(cols, "customer_name")
	}
	if caps.OrdersStatus {
		cols = append(cols, "status")
	}
	if caps.OrdersPaymentMethod {
		cols = append(cols, "payment_method")
	}
	if caps.OrdersRxStatus {
		cols = append(cols, "rx_status")
	}

	var order tables.Order
	err := db.NewSelect().
		Model(&order).
		Column(cols...).
		Where("order_number = ?", orderNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, lib.ErrNotFound
		}
		return nil, nil, lib.MapPgError(err)
	}

	itemCols := []string{"id", "order_id", "quantity", "price"}
	if caps.ItemsProductID {
		itemCols = append(itemCols, "product_id")
	}
	if caps.ItemsProductName {
		itemCols = append(itemCols, "product_name")
	}
	if caps.ItemsSubtotal {
		itemCols = append(itemCols, "subtotal")
	}

	var items []tables.OrderItem
	err = db.NewSelect().
		Model(&items).
		Column(itemCols...).
		Where("order_id = ?", order.ID).
		Scan(ctx)
	if err != nil {
		return nil, nil, lib.MapPgError(err)
	}

	return &order, items, nil
}

// UpdateStatus advances an order through the fulfillment workflow. Illegal
// jumps are rejected before any write.
func (s *OrderStore) UpdateStatus(ctx context.Context, db bun.IDB, orderNumber string, next tables.OrderStatus) (*tables.Order, error) {
	if !s.caps.OrdersStatus || !s.caps.OrdersOrderNumber {
		return nil, &lib.SchemaIncompatibleError{Table: "orders", Column: "status"}
	}

	var order tables.Order
	err := db.NewSelect().
		Model(&order).
		Column("id", "order_number", "status").
		Where("order_number = ?", orderNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lib.ErrNotFound
		}
		return nil, lib.MapPgError(err)
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", lib.ErrValidation, order.Status, next)
	}

	q := db.NewUpdate().
		Model((*tables.Order)(nil)).
		Set("status = ?", string(next)).
		Where("id = ?", order.ID)
	if s.caps.OrdersUpdatedAt {
		q = q.Set("updated_at = ?", time.Now())
	}
	if _, err := q.Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	s.logger.Info("Order status updated",
		gecho.Field("order_number", orderNumber),
		gecho.Field("status", string(next)))

	order.Status = next
	return &order, nil
}
