package tables

import (
	"time"
)

type LoyaltyMember struct {
	tableName struct{}  `bun:"table:loyalty_members,alias:lm"`
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name" json:"name,omitempty"`
	Points    int64     `bun:"points,notnull,default:0" json:"points"` // non-negative after any operation
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// LoyaltyPointsLog is an append-only journal. The sum of Points deltas for a
// member must reconcile to the member's current balance.
type LoyaltyPointsLog struct {
	tableName struct{}               `bun:"table:loyalty_points_log,alias:lpl"`
	ID        int64                  `bun:"id,pk,autoincrement" json:"id"`
	MemberID  int64                  `bun:"member_id,notnull" json:"member_id"`
	Points    int64                  `bun:"points,notnull" json:"points"` // signed delta; negative for redemptions
	Type      LoyaltyTransactionType `bun:"transaction_type,notnull" json:"transaction_type"`
	OrderID   *int64                 `bun:"order_id" json:"order_id,omitempty"`
	CreatedAt time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type LoyaltyTransactionType string

const (
	LoyaltyRedeem LoyaltyTransactionType = "REDEEM"
	// Earning happens only at pickup validation, never at checkout.
	LoyaltyEarn LoyaltyTransactionType = "EARN"
)
