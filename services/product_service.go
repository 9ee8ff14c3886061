package services

import (
	"botica_server/config"
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs"
	"botica_server/structs/tables"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

const productCacheKey = "products:active"

// ProductService owns catalog reads and the inventory ledger. Stock is only
// ever mutated through the conditional decrement below.
type ProductService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cache *CacheService) *ProductService {
	return &ProductService{
		logger: logger,
		db:     db,
		cache:  cache,
	}
}

// GetProducts returns the active catalog, served from cache when possible.
func (ps *ProductService) GetProducts(ctx context.Context) ([]tables.Product, error) {
	if cached, err := ps.cache.Get(productCacheKey); err == nil && cached != "" {
		var products []tables.Product
		if err := json.Unmarshal([]byte(cached), &products); err == nil {
			return products, nil
		}
		// Corrupt cache entry; fall through to the database.
		_ = ps.cache.Delete(productCacheKey)
	}

	var products []tables.Product
	err := ps.db.NewSelect().
		Model(&products).
		Where("is_active = ?", true).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	if payload, err := json.Marshal(products); err == nil {
		if err := ps.cache.Set(productCacheKey, payload, ps.cacheTTL()); err != nil {
			ps.logger.Warn("Failed to cache product catalog", gecho.Field("error", err))
		}
	}

	return products, nil
}

func (ps *ProductService) cacheTTL() time.Duration {
	return config.GetConfig().Cache.ProductTTL
}

// VerifyCart revalidates every cart line against the products table. Client
// prices and names are never trusted; quantities are sanity checked here and
// stock is checked later, atomically, inside the checkout transaction.
func (ps *ProductService) VerifyCart(ctx context.Context, items []structs.CartItem) ([]structs.VerifiedItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", lib.ErrValidation)
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid quantity for %q", lib.ErrValidation, it.Name)
		}
		ids = append(ids, it.ProductID)
	}

	var products []tables.Product
	err := ps.db.NewSelect().
		Model(&products).
		Where("id IN (?)", bun.In(ids)).
		Where("is_active = ?", true).
		Scan(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}

	return matchCartItems(items, products)
}

// matchCartItems joins cart lines against the fetched catalog rows. Names and
// prices always come from the row, never from the request.
func matchCartItems(items []structs.CartItem, products []tables.Product) ([]structs.VerifiedItem, error) {
	productMap := make(map[int64]*tables.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	verified := make([]structs.VerifiedItem, 0, len(items))
	for _, it := range items {
		product, exists := productMap[it.ProductID]
		if !exists {
			name := it.Name
			if name == "" {
				name = fmt.Sprintf("product #%d", it.ProductID)
			}
			return nil, fmt.Errorf("%w: %s is no longer available", lib.ErrValidation, name)
		}

		verified = append(verified, structs.VerifiedItem{
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   it.Quantity,
			Price:      product.Price,
			Subtotal:   product.Price * float64(it.Quantity),
			RequiresRx: product.RequiresRx,
		})
	}

	return verified, nil
}

// DecrementStock reserves stock for one line item with a single conditional
// update. The guard lives in the statement itself, so two checkouts racing
// for the last box cannot both win; the loser sees zero affected rows.
func (ps *ProductService) DecrementStock(ctx context.Context, tx bun.IDB, item structs.VerifiedItem) error {
	res, err := tx.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("stock = stock - ?", item.Quantity).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", item.ProductID).
		Where("stock >= ?", item.Quantity).
		Exec(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	return stockGuardOutcome(affected, item.Name)
}

// stockGuardOutcome maps the conditional update's row count onto the checkout
// error contract: zero affected rows means the guard lost the race.
func stockGuardOutcome(affected int64, product string) error {
	if affected == 0 {
		return &lib.InsufficientStockError{Product: product}
	}
	return nil
}
