package services

import (
	"botica_server/lib"
	"botica_server/structs"
	"botica_server/structs/tables"
	"context"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type mockCartVerifier struct{ mock.Mock }

func (m *mockCartVerifier) VerifyCart(ctx context.Context, items []structs.CartItem) ([]structs.VerifiedItem, error) {
	args := m.Called(ctx, items)
	if v := args.Get(0); v != nil {
		return v.([]structs.VerifiedItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInventoryLedger struct{ mock.Mock }

func (m *mockInventoryLedger) DecrementStock(ctx context.Context, tx bun.IDB, item structs.VerifiedItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

type mockOrderWriter struct{ mock.Mock }

func (m *mockOrderWriter) ResolveCustomer(ctx context.Context, tx bun.IDB, req *structs.CheckoutRequest) (*int64, error) {
	args := m.Called(ctx, tx, req)
	if v := args.Get(0); v != nil {
		return v.(*int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderWriter) InsertOrder(ctx context.Context, tx bun.IDB, draft *OrderDraft) (int64, error) {
	args := m.Called(ctx, tx, draft)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderWriter) InsertItems(ctx context.Context, tx bun.IDB, orderID int64, items []structs.VerifiedItem) error {
	args := m.Called(ctx, tx, orderID, items)
	return args.Error(0)
}

func (m *mockOrderWriter) FindByNumber(ctx context.Context, db bun.IDB, orderNumber string) (*tables.Order, []tables.OrderItem, error) {
	args := m.Called(ctx, db, orderNumber)
	var order *tables.Order
	if v := args.Get(0); v != nil {
		order = v.(*tables.Order)
	}
	var items []tables.OrderItem
	if v := args.Get(1); v != nil {
		items = v.([]tables.OrderItem)
	}
	return order, items, args.Error(2)
}

func (m *mockOrderWriter) UpdateStatus(ctx context.Context, db bun.IDB, orderNumber string, next tables.OrderStatus) (*tables.Order, error) {
	args := m.Called(ctx, db, orderNumber, next)
	if v := args.Get(0); v != nil {
		return v.(*tables.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRxEnforcer struct{ mock.Mock }

func (m *mockRxEnforcer) FlagOrderForApproval(ctx context.Context, tx bun.IDB, orderID int64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

func (m *mockRxEnforcer) CustomerWarning() string {
	args := m.Called()
	return args.String(0)
}

type mockLoyaltyLedger struct{ mock.Mock }

func (m *mockLoyaltyLedger) RedeemPoints(ctx context.Context, orderID int64, name, email string, memberID, points int64) error {
	args := m.Called(ctx, orderID, name, email, memberID, points)
	return args.Error(0)
}

type mockPosNotifier struct{ mock.Mock }

func (m *mockPosNotifier) NotifyOrderPlaced(ctx context.Context, notification *tables.PosNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

type checkoutMocks struct {
	cart      *mockCartVerifier
	inventory *mockInventoryLedger
	store     *mockOrderWriter
	rx        *mockRxEnforcer
	loyalty   *mockLoyaltyLedger
	notifier  *mockPosNotifier
}

func newTestCheckoutService() (*CheckoutService, *checkoutMocks) {
	m := &checkoutMocks{
		cart:      &mockCartVerifier{},
		inventory: &mockInventoryLedger{},
		store:     &mockOrderWriter{},
		rx:        &mockRxEnforcer{},
		loyalty:   &mockLoyaltyLedger{},
		notifier:  &mockPosNotifier{},
	}

	cs := &CheckoutService{
		logger: gecho.NewDefaultLogger(),
		cfg: &structs.Config{
			Checkout: &structs.CheckoutConfig{
				OrderPrefix: "BTC",
				PointValue:  1.0,
			},
		},
		cart:      m.cart,
		inventory: m.inventory,
		store:     m.store,
		rx:        m.rx,
		loyalty:   m.loyalty,
		notifier:  m.notifier,
	}
	// Run the pipeline against a stub transaction instead of a database.
	cs.runTx = func(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
		return fn(ctx, bun.Tx{})
	}

	return cs, m
}

func paracetamolRequest() *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		CustomerName:  "Juan Dela Cruz",
		Email:         "juan@example.com",
		PaymentMethod: "cash",
		Items: []structs.CartItem{
			{ProductID: 1, Name: "Paracetamol", Quantity: 2, Price: 5.00},
		},
	}
}

func paracetamolVerified() []structs.VerifiedItem {
	return []structs.VerifiedItem{
		{ProductID: 1, Name: "Paracetamol", Quantity: 2, Price: 5.00, Subtotal: 10.00},
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()
	verified := paracetamolVerified()

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(verified, nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(draft *OrderDraft) bool {
		return draft.TotalAmount == 10.00 && draft.CustomerName == "Juan Dela Cruz"
	})).Return(int64(42), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(42), verified).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, verified[0]).Return(nil)
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Equal(t, 10.00, result.TotalAmount)
	assert.Regexp(t, `^BTC-\d+-\d{3}$`, result.OrderNumber)
	assert.False(t, result.RequiresPrescription)
	assert.Zero(t, result.PointsRedeemed)

	m.store.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
	m.rx.AssertNotCalled(t, "FlagOrderForApproval", mock.Anything, mock.Anything, mock.Anything)
	m.loyalty.AssertNotCalled(t, "RedeemPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(paracetamolVerified(), nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.Anything).Return(int64(42), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(42), mock.Anything).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).
		Return(&lib.InsufficientStockError{Product: "Paracetamol"})

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.Nil(t, result)
	var stockErr *lib.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Insufficient stock for: Paracetamol", stockErr.Error())

	// Post-commit steps never run for a failed transaction.
	m.notifier.AssertNotCalled(t, "NotifyOrderPlaced", mock.Anything, mock.Anything)
	m.loyalty.AssertNotCalled(t, "RedeemPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrderFlagsRxOrdersExactlyOnce(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()
	req.Items = append(req.Items, structs.CartItem{ProductID: 2, Name: "Amoxicillin", Quantity: 1, Price: 12.00})
	verified := append(paracetamolVerified(),
		structs.VerifiedItem{ProductID: 2, Name: "Amoxicillin", Quantity: 1, Price: 12.00, Subtotal: 12.00, RequiresRx: true})

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(verified, nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.Anything).Return(int64(7), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(7), verified).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.rx.On("FlagOrderForApproval", mock.Anything, mock.Anything, int64(7)).Return(nil)
	m.rx.On("CustomerWarning").Return("bring your prescription")
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.True(t, result.RequiresPrescription)
	assert.Equal(t, []string{"Amoxicillin"}, result.RxProducts)
	assert.Equal(t, "bring your prescription", result.RxWarning)
	m.rx.AssertNumberOfCalls(t, "FlagOrderForApproval", 1)
}

func TestPlaceOrderAppliesLoyaltyRedemption(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()
	req.Loyalty = &structs.LoyaltyRedemptionRequest{PointsRedeemed: 4, LoyaltyMemberID: 9}

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(paracetamolVerified(), nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(draft *OrderDraft) bool {
		// 10.00 subtotal minus 4 points at 1.0 peso each.
		return draft.TotalAmount == 6.00
	})).Return(int64(11), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(11), mock.Anything).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(nil)
	m.loyalty.On("RedeemPoints", mock.Anything, int64(11), "Juan Dela Cruz", "juan@example.com", int64(9), int64(4)).Return(nil)

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, 6.00, result.TotalAmount)
	assert.Equal(t, int64(4), result.PointsRedeemed)
	assert.Equal(t, 4.00, result.DiscountApplied)
	m.loyalty.AssertExpectations(t)
}

func TestPlaceOrderLoyaltyFailureDoesNotFailOrder(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()
	req.Loyalty = &structs.LoyaltyRedemptionRequest{PointsRedeemed: 4, LoyaltyMemberID: 9}

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(paracetamolVerified(), nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.Anything).Return(int64(11), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(11), mock.Anything).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(nil)
	m.loyalty.On("RedeemPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), result.OrderID)
	assert.Contains(t, result.LoyaltyMessage, "points ledger could not be updated")
}

func TestPlaceOrderNotificationFailureDoesNotFailOrder(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(paracetamolVerified(), nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, req).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(3), mock.Anything).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(assert.AnError)

	result, err := cs.PlaceOrder(context.Background(), req, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), result.OrderID)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *structs.CheckoutRequest)
	}{
		{"missing customer name", func(req *structs.CheckoutRequest) { req.CustomerName = "" }},
		{"missing payment method", func(req *structs.CheckoutRequest) { req.PaymentMethod = "" }},
		{"empty cart", func(req *structs.CheckoutRequest) { req.Items = nil }},
		{"negative redemption", func(req *structs.CheckoutRequest) {
			req.Loyalty = &structs.LoyaltyRedemptionRequest{PointsRedeemed: -5}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, m := newTestCheckoutService()
			req := paracetamolRequest()
			tt.mutate(req)

			result, err := cs.PlaceOrder(context.Background(), req, nil)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, lib.ErrValidation)
			m.cart.AssertNotCalled(t, "VerifyCart", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceOrderUsesClaimsEmailForGuestsWithToken(t *testing.T) {
	cs, m := newTestCheckoutService()
	req := paracetamolRequest()
	req.Email = ""

	m.cart.On("VerifyCart", mock.Anything, req.Items).Return(paracetamolVerified(), nil)
	m.store.On("ResolveCustomer", mock.Anything, mock.Anything, mock.MatchedBy(func(r *structs.CheckoutRequest) bool {
		return r.Email == "member@example.com"
	})).Return(nil, nil)
	m.store.On("InsertOrder", mock.Anything, mock.Anything, mock.Anything).Return(int64(5), nil)
	m.store.On("InsertItems", mock.Anything, mock.Anything, int64(5), mock.Anything).Return(nil)
	m.inventory.On("DecrementStock", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	_, err := cs.PlaceOrder(context.Background(), req, &lib.AccountClaims{Sub: "abc", Email: "member@example.com"})

	assert.NoError(t, err)
	m.store.AssertExpectations(t)
}

func TestCheckoutTotals(t *testing.T) {
	tests := []struct {
		name             string
		items            []structs.VerifiedItem
		loyalty          *structs.LoyaltyRedemptionRequest
		pointValue       float64
		expectedSubtotal float64
		expectedDiscount float64
		expectedTotal    float64
	}{
		{
			name:             "no redemption",
			items:            paracetamolVerified(),
			expectedSubtotal: 10.00,
			expectedTotal:    10.00,
		},
		{
			name:             "redemption applied",
			items:            paracetamolVerified(),
			loyalty:          &structs.LoyaltyRedemptionRequest{PointsRedeemed: 4},
			pointValue:       1.0,
			expectedSubtotal: 10.00,
			expectedDiscount: 4.00,
			expectedTotal:    6.00,
		},
		{
			name:             "redemption clamped to subtotal",
			items:            paracetamolVerified(),
			loyalty:          &structs.LoyaltyRedemptionRequest{PointsRedeemed: 500},
			pointValue:       1.0,
			expectedSubtotal: 10.00,
			expectedDiscount: 10.00,
			expectedTotal:    0.00,
		},
		{
			name: "floating point sums round to centavos",
			items: []structs.VerifiedItem{
				{Subtotal: 0.1},
				{Subtotal: 0.2},
			},
			expectedSubtotal: 0.30,
			expectedTotal:    0.30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, discount, total := checkoutTotals(tt.items, tt.loyalty, tt.pointValue)

			assert.Equal(t, tt.expectedSubtotal, subtotal)
			assert.Equal(t, tt.expectedDiscount, discount)
			assert.Equal(t, tt.expectedTotal, total)

			// total + discount always recovers the pre-discount subtotal.
			assert.Equal(t, subtotal, total+discount)
		})
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	cs, m := newTestCheckoutService()

	_, err := cs.UpdateOrderStatus(context.Background(), "BTC-1-001", "Shipped")

	assert.ErrorIs(t, err, lib.ErrValidation)
	m.store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusDelegatesToStore(t *testing.T) {
	cs, m := newTestCheckoutService()
	updated := &tables.Order{ID: 1, OrderNumber: "BTC-1-001", Status: tables.OrderStatusConfirmed}

	m.store.On("UpdateStatus", mock.Anything, mock.Anything, "BTC-1-001", tables.OrderStatusConfirmed).
		Return(updated, nil)

	order, err := cs.UpdateOrderStatus(context.Background(), "BTC-1-001", "Confirmed")

	assert.NoError(t, err)
	assert.Equal(t, tables.OrderStatusConfirmed, order.Status)
}

func TestTrackOrderDelegatesToStore(t *testing.T) {
	cs, m := newTestCheckoutService()
	order := &tables.Order{ID: 1, OrderNumber: "BTC-1-001"}
	items := []tables.OrderItem{{OrderID: 1, ProductName: "Paracetamol", Quantity: 2}}

	m.store.On("FindByNumber", mock.Anything, mock.Anything, "BTC-1-001").Return(order, items, nil)

	gotOrder, gotItems, err := cs.TrackOrder(context.Background(), "BTC-1-001")

	assert.NoError(t, err)
	assert.Equal(t, order, gotOrder)
	assert.Equal(t, items, gotItems)
}
