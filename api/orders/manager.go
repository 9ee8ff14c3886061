package orders

import (
	"botica_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger          *gecho.Logger
	checkoutService *services.CheckoutService
}

func NewOrderRoutesManager(logger *gecho.Logger, checkoutService *services.CheckoutService) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:          logger,
		checkoutService: checkoutService,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/checkout", orm.Checkout)
		r.Get("/{orderNumber}", orm.TrackOrder)
		r.Patch("/{orderNumber}/status", orm.UpdateStatus)
	})
}
