package services

import (
	"botica_server/database"
	"botica_server/lib"
	"botica_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// LoyaltyLedger records point redemptions after the order transaction has
// committed. It is best-effort by contract: a bookkeeping failure must never
// fail or reverse a placed order. Earning points for the purchase is the
// pickup-validation workflow's job and must never happen here.
type LoyaltyLedger interface {
	RedeemPoints(ctx context.Context, orderID int64, name, email string, memberID, points int64) error
}

type LoyaltyService struct {
	logger *gecho.Logger
	db     *database.DB
	caps   database.Capabilities
}

func NewLoyaltyService(logger *gecho.Logger, db *database.DB, caps database.Capabilities) *LoyaltyService {
	return &LoyaltyService{
		logger: logger,
		db:     db,
		caps:   caps,
	}
}

// RedeemPoints resolves (or lazily creates) the member keyed by email,
// decrements the balance by the redeemed amount and appends one REDEEM
// journal entry referencing the order. The balance decrement and the journal
// row commit together so the ledger always reconciles to the balance.
func (ls *LoyaltyService) RedeemPoints(ctx context.Context, orderID int64, name, email string, memberID, points int64) error {
	if !ls.caps.LoyaltyTables {
		return fmt.Errorf("loyalty tables not present in this deployment")
	}
	if email == "" {
		return fmt.Errorf("cannot resolve loyalty member without an email")
	}
	if points <= 0 {
		return fmt.Errorf("invalid redemption amount: %d", points)
	}

	return ls.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		member, err := ls.resolveMember(ctx, tx, name, email)
		if err != nil {
			return err
		}

		if err := verifyMemberIdentity(member, memberID); err != nil {
			return err
		}

		// Guarded decrement; a balance below the redemption loses the race.
		res, err := tx.NewUpdate().
			Model((*tables.LoyaltyMember)(nil)).
			Set("points = points - ?", points).
			Where("id = ?", member.ID).
			Where("points >= ?", points).
			Exec(ctx)
		if err != nil {
			return lib.MapPgError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("member %d has fewer than %d points", member.ID, points)
		}

		entry := redeemJournalEntry(member.ID, orderID, points)
		if _, err := tx.NewInsert().Model(&entry).Exec(ctx); err != nil {
			return lib.MapPgError(err)
		}

		ls.logger.Info("Loyalty points redeemed",
			gecho.Field("member_id", member.ID),
			gecho.Field("points", points),
			gecho.Field("order_id", orderID))

		return nil
	})
}

// verifyMemberIdentity rejects redemptions where the caller-supplied member id
// does not match the member the email resolves to.
func verifyMemberIdentity(member *tables.LoyaltyMember, claimed int64) error {
	if member.ID != claimed {
		return fmt.Errorf("loyalty member mismatch: request says %d, email resolves to %d", claimed, member.ID)
	}
	return nil
}

// redeemJournalEntry builds the append-only REDEEM row. Redemptions are
// recorded as negative deltas so the journal sums to the balance.
func redeemJournalEntry(memberID, orderID, points int64) tables.LoyaltyPointsLog {
	return tables.LoyaltyPointsLog{
		MemberID:  memberID,
		Points:    -points,
		Type:      tables.LoyaltyRedeem,
		OrderID:   &orderID,
		CreatedAt: time.Now(),
	}
}

func (ls *LoyaltyService) resolveMember(ctx context.Context, tx bun.Tx, name, email string) (*tables.LoyaltyMember, error) {
	var member tables.LoyaltyMember
	err := tx.NewSelect().
		Model(&member).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err == nil {
		return &member, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, lib.MapPgError(err)
	}

	member = tables.LoyaltyMember{
		Email:     email,
		Name:      name,
		Points:    0,
		CreatedAt: time.Now(),
	}
	if _, err := tx.NewInsert().Model(&member).Returning("id").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	ls.logger.Info("Loyalty member created with zero balance", gecho.Field("member_id", member.ID))
	return &member, nil
}
