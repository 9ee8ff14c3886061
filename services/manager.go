package services

import (
	"botica_server/database"
	"botica_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService        *CacheService
	HealthService       *HealthService
	ProductService      *ProductService
	RxService           *RxService
	LoyaltyService      *LoyaltyService
	NotificationService *NotificationService
	CheckoutService     *CheckoutService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB, caps database.Capabilities) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	productService := NewProductService(logger, db, cacheService)
	rxService := NewRxService(logger, caps)
	loyaltyService := NewLoyaltyService(logger, db, caps)
	notificationService := NewNotificationService(logger, db, caps)
	orderStore := NewOrderStore(logger, caps)

	checkoutService := NewCheckoutService(
		logger,
		cfg,
		db,
		caps,
		productService,
		productService,
		orderStore,
		rxService,
		loyaltyService,
		notificationService,
	)

	return &ServiceManager{
		CacheService:        cacheService,
		HealthService:       healthService,
		ProductService:      productService,
		RxService:           rxService,
		LoyaltyService:      loyaltyService,
		NotificationService: notificationService,
		CheckoutService:     checkoutService,
	}
}
