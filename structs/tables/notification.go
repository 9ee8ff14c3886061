package tables

import (
	"time"
)

// PosNotification is a write-once record read by the POS dashboard.
type PosNotification struct {
	tableName struct{}  `bun:"table:pos_notifications,alias:pn"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderID   int64     `bun:"order_id,notnull" json:"order_id"`
	Type      string    `bun:"type,notnull" json:"type"`
	Title     string    `bun:"title,notnull" json:"title"`
	Message   string    `bun:"message,notnull" json:"message"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
