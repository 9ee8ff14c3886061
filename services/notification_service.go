package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs"
	"botica_server/structs/tables"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// PosNotifier writes the order summary record the POS dashboard polls.
// Emission happens after commit and is best-effort; a failed write must not
// void an order whose stock is already reserved.
type PosNotifier interface {
	NotifyOrderPlaced(ctx context.Context, notification *tables.PosNotification) error
}

type NotificationService struct {
	logger *gecho.Logger
	db     *database.DB
	caps   database.Capabilities
}

func NewNotificationService(logger *gecho.Logger, db *database.DB, caps database.Capabilities) *NotificationService {
	return &NotificationService{
		logger: logger,
		db:     db,
		caps:   caps,
	}
}

func (ns *NotificationService) NotifyOrderPlaced(ctx context.Context, notification *tables.PosNotification) error {
	if !ns.caps.NotificationsTable {
		return fmt.Errorf("pos_notifications table not present in this deployment")
	}

	if _, err := ns.db.NewInsert().Model(notification).Exec(ctx); err != nil {
		return lib.MapPgError(err)
	}

	return nil
}

// BuildOrderPlacedNotification renders the human-readable summary shown on
// the POS dashboard: order reference, customer, payment method, itemized
// lines, total and the fulfillment mode.
func BuildOrderPlacedNotification(orderID int64, orderNumber, customerName, paymentMethod string, items []structs.VerifiedItem, total float64) *tables.PosNotification {
	var sb strings.Builder

	if customerName == "" {
		customerName = "Guest"
	}

	fmt.Fprintf(&sb, "Order %s from %s (%s):\n", orderNumber, customerName, paymentMethod)
	for _, item := range items {
		fmt.Fprintf(&sb, "  %dx %s @ %.2f = %.2f\n", item.Quantity, item.Name, item.Price, item.Subtotal)
	}
	fmt.Fprintf(&sb, "Total: %.2f (pickup only)", total)

	return &tables.PosNotification{
		OrderID:   orderID,
		Type:      "order_placed",
		Title:     fmt.Sprintf("New online order %s", orderNumber),
		Message:   sb.String(),
		CreatedAt: time.Now(),
	}
}
