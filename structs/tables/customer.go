package tables

import (
	"time"
)

// Customer rows are shared with the wider system; checkout only reads them or
// lazily creates one when the deployment has a customers table at all.
type Customer struct {
	tableName struct{}  `bun:"table:customers,alias:c"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Email     string    `bun:"email,unique" json:"email"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	Address   string    `bun:"address" json:"address,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
