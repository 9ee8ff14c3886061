package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs"
	"botica_server/structs/tables"
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// CartVerifier revalidates cart lines server-side before anything is written.
type CartVerifier interface {
	VerifyCart(ctx context.Context, items []structs.CartItem) ([]structs.VerifiedItem, error)
}

// InventoryLedger reserves stock inside the checkout transaction.
type InventoryLedger interface {
	DecrementStock(ctx context.Context, tx bun.IDB, item structs.VerifiedItem) error
}

// OrderWriter covers the persistence side of checkout.
type OrderWriter interface {
	ResolveCustomer(ctx context.Context, tx bun.IDB, req *structs.CheckoutRequest) (*int64, error)
	InsertOrder(ctx context.Context, tx bun.IDB, draft *OrderDraft) (int64, error)
	InsertItems(ctx context.Context, tx bun.IDB, orderID int64, items []structs.VerifiedItem) error
	FindByNumber(ctx context.Context, db bun.IDB, orderNumber string) (*tables.Order, []tables.OrderItem, error)
	UpdateStatus(ctx context.Context, db bun.IDB, orderNumber string, next tables.OrderStatus) (*tables.Order, error)
}

// CheckoutService turns a shopping cart into a durable order. Every write
// that affects money or stock happens inside one transaction; loyalty
// bookkeeping and the POS notification run after commit and are best-effort.
type CheckoutService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	db        *database.DB
	caps      database.Capabilities
	cart      CartVerifier
	inventory InventoryLedger
	store     OrderWriter
	rx        RxEnforcer
	loyalty   LoyaltyLedger
	notifier  PosNotifier

	// runTx exists so tests can run the pipeline without a live database.
	runTx func(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
}

func NewCheckoutService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	caps database.Capabilities,
	cart CartVerifier,
	inventory InventoryLedger,
	store OrderWriter,
	rx RxEnforcer,
	loyalty LoyaltyLedger,
	notifier PosNotifier,
) *CheckoutService {
	cs := &CheckoutService{
		logger:    logger,
		cfg:       cfg,
		db:        db,
		caps:      caps,
		cart:      cart,
		inventory: inventory,
		store:     store,
		rx:        rx,
		loyalty:   loyalty,
		notifier:  notifier,
	}
	cs.runTx = func(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
		return db.RunInTx(ctx, &sql.TxOptions{}, fn)
	}
	return cs
}

// PlaceOrder executes the checkout pipeline: validate, revalidate the cart,
// then inside one transaction resolve the customer, persist the header and
// items, reserve stock per line and flag Rx orders. The transaction commits
// only when every item's stock was reserved; any failure rolls all of it
// back, so no partial order is ever visible downstream.
func (cs *CheckoutService) PlaceOrder(ctx context.Context, req *structs.CheckoutRequest, claims *lib.AccountClaims) (*structs.CheckoutResult, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	// Logged-in customers may omit the email; take it from the token.
	if req.Email == "" && claims != nil {
		req.Email = claims.Email
	}

	verified, err := cs.cart.VerifyCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal, pointsDiscount, total := checkoutTotals(verified, req.Loyalty, cs.cfg.Checkout.PointValue)

	var rxProducts []string
	for _, item := range verified {
		if item.RequiresRx {
			rxProducts = append(rxProducts, item.Name)
		}
	}

	orderNumber := lib.GenerateOrderNumber(cs.cfg.Checkout.OrderPrefix)

	var orderID int64
	txErr := database.WithRetry(ctx, func() error {
		return cs.runTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			customerID, err := cs.store.ResolveCustomer(ctx, tx, req)
			if err != nil {
				return err
			}

			draft := &OrderDraft{
				OrderNumber:     orderNumber,
				CustomerID:      customerID,
				CustomerName:    req.CustomerName,
				Email:           req.Email,
				Phone:           req.Phone,
				Address:         req.Address,
				TotalAmount:     total,
				PaymentMethod:   req.PaymentMethod,
				DiscountClaimed: req.SeniorDiscount.Bool(),
			}

			id, err := cs.store.InsertOrder(ctx, tx, draft)
			if err != nil {
				return err
			}
			orderID = id

			if err := cs.store.InsertItems(ctx, tx, id, verified); err != nil {
				return err
			}

			for _, item := range verified {
				if err := cs.inventory.DecrementStock(ctx, tx, item); err != nil {
					return err
				}
			}

			if len(rxProducts) > 0 {
				if err := cs.rx.FlagOrderForApproval(ctx, tx, id); err != nil {
					return err
				}
			}

			return nil
		})
	})
	if txErr != nil {
		cs.logger.Error("Checkout transaction rolled back",
			gecho.Field("error", txErr),
			gecho.Field("order_number", orderNumber))
		return nil, txErr
	}

	cs.logger.Info("Order committed",
		gecho.Field("order_id", orderID),
		gecho.Field("order_number", orderNumber),
		gecho.Field("total", total),
		gecho.Field("subtotal", subtotal))

	// The order is durable from here on; nothing below may undo it.
	result := &structs.CheckoutResult{
		OrderID:        orderID,
		OrderNumber:    orderNumber,
		TotalAmount:    total,
		LoyaltyMessage: "Points for this purchase will be credited after pickup validation.",
	}

	notification := BuildOrderPlacedNotification(orderID, orderNumber, req.CustomerName, req.PaymentMethod, verified, total)
	if err := cs.notifier.NotifyOrderPlaced(ctx, notification); err != nil {
		cs.logger.Error("POS notification write failed; order unaffected",
			gecho.Field("error", err),
			gecho.Field("order_id", orderID))
	}

	if req.Loyalty != nil && req.Loyalty.PointsRedeemed > 0 {
		result.PointsRedeemed = req.Loyalty.PointsRedeemed
		result.DiscountApplied = pointsDiscount

		err := cs.loyalty.RedeemPoints(ctx, orderID, req.CustomerName, req.Email, req.Loyalty.LoyaltyMemberID, req.Loyalty.PointsRedeemed)
		if err != nil {
			cs.logger.Error("Loyalty redemption failed; order unaffected",
				gecho.Field("error", err),
				gecho.Field("order_id", orderID),
				gecho.Field("member_id", req.Loyalty.LoyaltyMemberID))
			result.LoyaltyMessage = "Your discount was applied, but the points ledger could not be updated. " +
				"Please present your loyalty card at pickup."
		}
	}

	if len(rxProducts) > 0 {
		result.RequiresPrescription = true
		result.RxProducts = rxProducts
		result.RxWarning = cs.rx.CustomerWarning()
	}

	if req.SeniorDiscount.Bool() {
		result.SCPWDClaimed = true
		result.SCPWDMessage = "Senior citizen / PWD discount will be applied at pickup after ID verification."
	}

	return result, nil
}

// TrackOrder returns an order summary for the storefront.
func (cs *CheckoutService) TrackOrder(ctx context.Context, orderNumber string) (*tables.Order, []tables.OrderItem, error) {
	return cs.store.FindByNumber(ctx, cs.db, orderNumber)
}

// UpdateOrderStatus advances the fulfillment workflow for the POS dashboard.
func (cs *CheckoutService) UpdateOrderStatus(ctx context.Context, orderNumber, status string) (*tables.Order, error) {
	next, ok := tables.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", lib.ErrValidation, status)
	}
	return cs.store.UpdateStatus(ctx, cs.db, orderNumber, next)
}

func validateCheckoutRequest(req *structs.CheckoutRequest) error {
	if req.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", lib.ErrValidation)
	}
	if req.PaymentMethod == "" {
		return fmt.Errorf("%w: payment method is required", lib.ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", lib.ErrValidation)
	}
	if req.Loyalty != nil && req.Loyalty.PointsRedeemed < 0 {
		return fmt.Errorf("%w: negative point redemption", lib.ErrValidation)
	}
	return nil
}

// checkoutTotals computes the pre-redemption subtotal, the peso value of the
// requested redemption (clamped to the subtotal) and the post-redemption
// total that gets stored. total + discount always recovers the subtotal used
// later for earning calculations.
func checkoutTotals(items []structs.VerifiedItem, loyalty *structs.LoyaltyRedemptionRequest, pointValue float64) (subtotal, discount, total float64) {
	for _, item := range items {
		subtotal += item.Subtotal
	}
	subtotal = round2(subtotal)

	if loyalty != nil && loyalty.PointsRedeemed > 0 {
		discount = round2(float64(loyalty.PointsRedeemed) * pointValue)
		if discount > subtotal {
			discount = subtotal
		}
	}

	total = round2(subtotal - discount)
	return subtotal, discount, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
