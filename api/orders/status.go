package orders

import (
	"botica_server/handling"
	"botica_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /orders/{orderNumber}/status for the POS dashboard.
func (orm *OrderRoutesManager) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	body, err := lib.ExtractAndValidateBody[statusUpdateRequest](r)
	if err != nil || body.Status == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("Status is required"),
			gecho.Send(),
		)
		return
	}

	order, err := orm.checkoutService.UpdateOrderStatus(r.Context(), orderNumber, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("Order not found"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrValidation):
			gecho.BadRequest(w,
				gecho.WithMessage(err.Error()),
				gecho.Send(),
			)
		default:
			handling.HandleError(err, "Failed to update order status", orm.logger, w)
		}
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order_ref": order.OrderNumber,
			"status":    order.Status,
		}),
		gecho.Send(),
	)
}
