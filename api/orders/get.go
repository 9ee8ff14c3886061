package orders

import (
	"botica_server/handling"
	"botica_server/lib"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// TrackOrder handles GET /orders/{orderNumber}.
func (orm *OrderRoutesManager) TrackOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("Order number is required"),
			gecho.Send(),
		)
		return
	}

	order, items, err := orm.checkoutService.TrackOrder(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.NotFound(w,
				gecho.WithMessage("Order not found"),
				gecho.Send(),
			)
			return
		}

		handling.HandleError(err, "Failed to look up order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order": order,
			"items": items,
		}),
		gecho.Send(),
	)
}
