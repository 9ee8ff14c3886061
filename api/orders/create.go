package orders

import (
	"botica_server/api/health"
	"botica_server/config"
	"botica_server/lib"
	"botica_server/structs"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Checkout handles POST /orders/checkout. Failure messages stay generic
// except for insufficient stock, where the product name tells the customer
// what to fix.
func (orm *OrderRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		health.CheckoutOrders.WithLabelValues("invalid_body").Inc()
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid request body"),
			gecho.Send(),
		)
		return
	}

	// Checkout works for guests too; a valid token just links the order.
	var claims *lib.AccountClaims
	if c, err := lib.ExtractClaims(r, config.GetConfig().Auth.AccessTokenSecret); err == nil {
		claims = c
	}

	result, err := orm.checkoutService.PlaceOrder(r.Context(), body, claims)
	if err != nil {
		orm.writeCheckoutError(w, err)
		return
	}

	health.CheckoutOrders.WithLabelValues("success").Inc()

	data := map[string]any{
		"order_id":                   result.OrderID,
		"order_ref":                  result.OrderNumber,
		"total_amount":               result.TotalAmount,
		"loyalty_pending_validation": true,
		"loyalty_message":            result.LoyaltyMessage,
	}
	if result.RequiresPrescription {
		data["requires_prescription"] = true
		data["rx_products"] = result.RxProducts
		data["rx_warning"] = result.RxWarning
	}
	if result.PointsRedeemed > 0 {
		data["points_redeemed"] = result.PointsRedeemed
		data["discount_applied"] = result.DiscountApplied
	}
	if result.SCPWDClaimed {
		data["sc_pwd_claimed"] = true
		data["sc_pwd_message"] = result.SCPWDMessage
	}

	gecho.Success(w,
		gecho.WithMessage("Order placed successfully"),
		gecho.WithData(data),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) writeCheckoutError(w http.ResponseWriter, err error) {
	var stockErr *lib.InsufficientStockError
	if errors.As(err, &stockErr) {
		health.CheckoutOrders.WithLabelValues("insufficient_stock").Inc()
		gecho.InternalServerError(w,
			gecho.WithMessage(stockErr.Error()),
			gecho.Send(),
		)
		return
	}

	if errors.Is(err, lib.ErrValidation) {
		health.CheckoutOrders.WithLabelValues("validation_failed").Inc()
		gecho.BadRequest(w,
			gecho.WithMessage(err.Error()),
			gecho.Send(),
		)
		return
	}

	// Everything else stays opaque to the client.
	health.CheckoutOrders.WithLabelValues("error").Inc()
	orm.logger.Error("Checkout failed", gecho.Field("error", err))
	gecho.InternalServerError(w,
		gecho.WithMessage("Failed to place order. Please try again."),
		gecho.Send(),
	)
}
