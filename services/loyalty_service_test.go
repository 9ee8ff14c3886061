package services

import (
	"botica_server/database"
	"botica_server/structs/tables"
	"context"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
)

func TestRedeemPointsRequiresLoyaltyTables(t *testing.T) {
	ls := NewLoyaltyService(gecho.NewDefaultLogger(), nil, database.Capabilities{})

	err := ls.RedeemPoints(context.Background(), 1, "Juan", "juan@example.com", 9, 10)

	assert.ErrorContains(t, err, "loyalty tables not present")
}

func TestRedeemPointsRequiresEmail(t *testing.T) {
	ls := NewLoyaltyService(gecho.NewDefaultLogger(), nil, database.Capabilities{LoyaltyTables: true})

	err := ls.RedeemPoints(context.Background(), 1, "Juan", "", 9, 10)

	assert.ErrorContains(t, err, "without an email")
}

func TestRedeemPointsRejectsNonPositiveAmounts(t *testing.T) {
	ls := NewLoyaltyService(gecho.NewDefaultLogger(), nil, database.Capabilities{LoyaltyTables: true})

	assert.ErrorContains(t, ls.RedeemPoints(context.Background(), 1, "Juan", "juan@example.com", 9, 0), "invalid redemption amount")
	assert.ErrorContains(t, ls.RedeemPoints(context.Background(), 1, "Juan", "juan@example.com", 9, -5), "invalid redemption amount")
}

func TestVerifyMemberIdentity(t *testing.T) {
	member := &tables.LoyaltyMember{ID: 7, Email: "juan@example.com"}

	assert.NoError(t, verifyMemberIdentity(member, 7))

	err := verifyMemberIdentity(member, 9)
	assert.ErrorContains(t, err, "loyalty member mismatch")
	assert.ErrorContains(t, err, "request says 9")
	assert.ErrorContains(t, err, "resolves to 7")
}

func TestRedeemJournalEntryIsSignedAndReferencesOrder(t *testing.T) {
	entry := redeemJournalEntry(7, 42, 20)

	assert.Equal(t, int64(7), entry.MemberID)
	assert.Equal(t, int64(-20), entry.Points)
	assert.Equal(t, tables.LoyaltyRedeem, entry.Type)
	if assert.NotNil(t, entry.OrderID) {
		assert.Equal(t, int64(42), *entry.OrderID)
	}
	assert.False(t, entry.CreatedAt.IsZero())
}
