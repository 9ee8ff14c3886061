package tables

import (
	"time"
)

// Order maps the orders table as this server understands it. Deployments in
// the field predate this schema; the checkout flow only writes the columns the
// resolved capabilities say exist, so every optional column is nullable here.
type Order struct {
	tableName   struct{} `bun:"table:orders,alias:o"`
	ID          int64    `bun:"id,pk,autoincrement" json:"id"`
	OrderNumber string   `bun:"order_number" json:"order_number"`

	// Customer linkage is optional; guest orders leave it null.
	CustomerID *int64 `bun:"customer_id" json:"customer_id,omitempty"`

	// Contact snapshot taken at checkout time.
	CustomerName string `bun:"customer_name" json:"customer_name"`
	Email        string `bun:"email" json:"email,omitempty"`
	Phone        string `bun:"phone" json:"phone,omitempty"`
	Address      string `bun:"address" json:"address,omitempty"`

	// TotalAmount is always the post-redemption amount. The pre-redemption
	// subtotal is total + points discount and is recomputed where needed.
	TotalAmount   float64 `bun:"total_amount" json:"total_amount"`
	PaymentMethod string  `bun:"payment_method" json:"payment_method"`

	Status OrderStatus `bun:"status" json:"status"`

	// Senior citizen / PWD discount is claimed at checkout but only honored
	// after ID verification at pickup.
	DiscountClaimed bool `bun:"discount_claimed" json:"discount_claimed"`

	// RxStatus gates patient-facing fulfillment, never the transaction itself.
	RxStatus RxStatus `bun:"rx_status" json:"rx_status,omitempty"`

	// SaleID links the POS sale record created at pickup validation.
	SaleID *int64 `bun:"sale_id" json:"sale_id,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// OrderItem snapshots the product name and price at order time so history
// survives product edits and deletes.
type OrderItem struct {
	tableName struct{} `bun:"table:order_items,alias:oi"`
	ID        int64    `bun:"id,pk,autoincrement" json:"id"`
	OrderID   int64    `bun:"order_id,notnull" json:"order_id"`
	ProductID int64    `bun:"product_id" json:"product_id"`

	ProductName string  `bun:"product_name" json:"product_name"`
	Quantity    int     `bun:"quantity,notnull" json:"quantity"`
	Price       float64 `bun:"price,notnull" json:"price"`
	Subtotal    float64 `bun:"subtotal" json:"subtotal"` // price * quantity
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// validNextStatuses encodes the fulfillment workflow: Pending → Confirmed →
// Preparing → Ready → Completed, cancellable at any point before completion.
var validNextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validNextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps client input onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

type RxStatus string

const (
	RxStatusNone            RxStatus = "none"
	RxStatusPendingApproval RxStatus = "pending_approval"
	RxStatusApproved        RxStatus = "approved"
	RxStatusRejected        RxStatus = "rejected"
)
