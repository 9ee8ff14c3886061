package database

import (
	"botica_server/config"
	"context"

	"github.com/MonkyMars/gecho"
)

// checkoutDDL lists the idempotent statements that bring any supported
// deployment up to the columns and tables the checkout flow writes. Engines
// that already have a piece, or a concurrent deployment that raced us, make
// individual statements fail; those failures are swallowed.
var checkoutDDL = []string{
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS status VARCHAR(20) DEFAULT 'Pending'`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS payment_method VARCHAR(50)`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP`,
	// Nullable so guest orders can omit it.
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS email VARCHAR(255)`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS discount_claimed BOOLEAN DEFAULT FALSE`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS rx_status VARCHAR(30) DEFAULT 'none'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_order_number_key ON orders (order_number)`,

	`ALTER TABLE order_items ADD COLUMN IF NOT EXISTS product_name VARCHAR(255)`,
	`ALTER TABLE order_items ADD COLUMN IF NOT EXISTS subtotal DECIMAL(10,2)`,

	`CREATE TABLE IF NOT EXISTS pos_notifications (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL,
		type VARCHAR(50) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_members (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255),
		points BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_points_log (
		id BIGSERIAL PRIMARY KEY,
		member_id BIGINT NOT NULL REFERENCES loyalty_members(id),
		points BIGINT NOT NULL,
		transaction_type VARCHAR(20) NOT NULL,
		order_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureCheckoutSchema idempotently adds the columns, constraints and tables
// the checkout flow depends on, and migrates the legacy single-reference item
// schema. Checkout must proceed even when the schema is already current, so
// every DDL failure is logged and swallowed. The inspector's memo is reset
// before returning so later lookups see the evolved schema.
func EnsureCheckoutSchema(ctx context.Context, db *DB, insp *SchemaInspector) {
	logger := config.GetLogger()

	for _, stmt := range checkoutDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Warn("Schema evolution statement skipped",
				gecho.Field("error", err),
				gecho.Field("statement", stmt),
			)
		}
	}

	migrateLegacyItemColumn(ctx, db, insp, logger)

	insp.Reset()
}

// migrateLegacyItemColumn moves order_items off the legacy medicine_id
// reference onto the generic product_id column without losing data: add the
// new column, backfill it, relax the old column to nullable, re-point the
// foreign key. The old column stays in place and keeps being populated so
// legacy consumers continue to work.
func migrateLegacyItemColumn(ctx context.Context, db *DB, insp *SchemaInspector, logger *gecho.Logger) {
	hasLegacy, err := insp.HasColumn(ctx, "order_items", "medicine_id")
	if err != nil || !hasLegacy {
		return
	}

	hasProductID, err := insp.HasColumn(ctx, "order_items", "product_id")
	if err != nil {
		return
	}

	if !hasProductID {
		stmts := []string{
			`ALTER TABLE order_items ADD COLUMN IF NOT EXISTS product_id BIGINT`,
			`UPDATE order_items SET product_id = medicine_id WHERE product_id IS NULL`,
		}
		for _, stmt := range stmts {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				logger.Warn("Legacy item migration statement skipped",
					gecho.Field("error", err),
					gecho.Field("statement", stmt),
				)
			}
		}
	}

	// Both of these fail harmlessly when a previous run already applied them.
	relax := []string{
		`ALTER TABLE order_items ALTER COLUMN medicine_id DROP NOT NULL`,
		`ALTER TABLE order_items ADD CONSTRAINT order_items_product_id_fkey
			FOREIGN KEY (product_id) REFERENCES products(id)`,
	}
	for _, stmt := range relax {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Warn("Legacy item migration statement skipped",
				gecho.Field("error", err),
				gecho.Field("statement", stmt),
			)
		}
	}
}
