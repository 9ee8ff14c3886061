package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs/tables"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// RxEnforcer is the compliance collaborator: it marks orders that need
// pharmacist approval and supplies the customer-facing warning. Flagging runs
// inside the checkout transaction; losing the flag would let a controlled
// product ship unapproved, so its failure is as fatal as any other step.
type RxEnforcer interface {
	FlagOrderForApproval(ctx context.Context, tx bun.IDB, orderID int64) error
	CustomerWarning() string
}

type RxService struct {
	logger *gecho.Logger
	caps   database.Capabilities
}

func NewRxService(logger *gecho.Logger, caps database.Capabilities) *RxService {
	return &RxService{
		logger: logger,
		caps:   caps,
	}
}

// FlagOrderForApproval marks the order as pending pharmacist approval.
// A plain status write, so calling it twice is harmless.
func (rs *RxService) FlagOrderForApproval(ctx context.Context, tx bun.IDB, orderID int64) error {
	if !rs.caps.OrdersRxStatus {
		return &lib.SchemaIncompatibleError{Table: "orders", Column: "rx_status"}
	}

	q := tx.NewUpdate().
		Model((*tables.Order)(nil)).
		Set("rx_status = ?", string(tables.RxStatusPendingApproval)).
		Where("id = ?", orderID)
	if rs.caps.OrdersUpdatedAt {
		q = q.Set("updated_at = ?", time.Now())
	}

	if _, err := q.Exec(ctx); err != nil {
		return lib.MapPgError(err)
	}

	rs.logger.Info("Order flagged for pharmacist approval", gecho.Field("order_id", orderID))
	return nil
}

func (rs *RxService) CustomerWarning() string {
	return "This order contains prescription medicine. Please bring a valid prescription; " +
		"a pharmacist must approve the order before it can be released at pickup."
}
