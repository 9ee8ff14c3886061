package tables

import (
	"time"
)

type Product struct {
	tableName   struct{} `bun:"table:products,alias:p"`
	ID          int64    `bun:"id,pk,autoincrement" json:"id"`
	Name        string   `bun:"name,notnull" json:"name"`
	Description string   `bun:"description" json:"description,omitempty"`
	Price       float64  `bun:"price,notnull" json:"price"`
	Stock       int      `bun:"stock,notnull" json:"stock"` // never negative; mutated only by conditional decrement

	// RequiresRx marks prescription-only products that need pharmacist
	// approval before fulfillment.
	RequiresRx bool `bun:"requires_prescription" json:"requires_prescription"`

	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
