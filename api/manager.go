package api

import (
	"botica_server/api/health"
	"botica_server/api/orders"
	"botica_server/api/products"
	"botica_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes *products.ProductRoutesManager
	healthRoutes  *health.HealthRoutesManager
	orderRoutes   *orders.OrderRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager) *routerManager {
	return &routerManager{
		productRoutes: products.NewProductRoutesManager(logger, sm.ProductService),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		orderRoutes:   orders.NewOrderRoutesManager(logger, sm.CheckoutService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
}
