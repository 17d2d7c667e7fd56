package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/stock-engine/ledger"
	"github.com/fieldline/stock-engine/ledger/store"
)

func newWorkflow(now time.Time) (*ledger.TransferWorkflow, *store.Memory) {
	st := store.NewMemory()
	led := ledger.NewTransactionLedger(st, fixedClock{now: now})
	return ledger.NewTransferWorkflow(led), st
}

func TestWorkflow_EachOperationWritesOneTypedMovement(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("issue", func(t *testing.T) {
		wf, _ := newWorkflow(now)
		m, err := wf.IssueToRep(ctx, "item-a", "rep-1", 40)
		require.NoError(t, err)
		assert.Equal(t, ledger.MovementIssue, m.Type)
		assert.Equal(t, ledger.ActorID("rep-1"), m.ActorID)
		assert.Empty(t, m.Reference)
	})

	t.Run("transfer carries the shop in reference", func(t *testing.T) {
		// Rep-side only: the movement lands on the rep, and the
		// destination shop survives solely as the opaque reference.
		wf, _ := newWorkflow(now)
		m, err := wf.TransferToShop(ctx, "item-a", "rep-1", "shop-9", 12)
		require.NoError(t, err)
		assert.Equal(t, ledger.MovementTransferOut, m.Type)
		assert.Equal(t, ledger.ActorID("rep-1"), m.ActorID, "movement is on the rep, not the shop")
		assert.Equal(t, "shop-9", m.Reference)
	})

	t.Run("return to rep", func(t *testing.T) {
		wf, _ := newWorkflow(now)
		m, err := wf.ReturnToRep(ctx, "item-a", "rep-1", 3)
		require.NoError(t, err)
		assert.Equal(t, ledger.MovementReturnIn, m.Type)
	})

	t.Run("return to warehouse", func(t *testing.T) {
		wf, _ := newWorkflow(now)
		m, err := wf.ReturnToWarehouse(ctx, "item-a", "rep-1", 5)
		require.NoError(t, err)
		assert.Equal(t, ledger.MovementReturnToHQ, m.Type)
	})
}

func TestWorkflow_TransferToShop_NoShopSideMovement(t *testing.T) {
	// GIVEN: A transfer of 12 units to shop-9
	// WHEN: Projecting the shop's balance
	// THEN: It is 0; the receipt is never mirrored onto the shop

	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	wf, st := newWorkflow(now)
	ctx := context.Background()

	_, err := wf.TransferToShop(ctx, "item-a", "rep-1", "shop-9", 12)
	require.NoError(t, err)

	policy := ledger.DailyResetPolicy{Loc: time.UTC}
	shopBalance := projectAt(t, st, "shop-9", "item-a", policy.CumulativeWindow(now))
	assert.Equal(t, int64(0), shopBalance)

	repBalance := projectAt(t, st, "rep-1", "item-a", policy.CurrentWindow(now))
	assert.Equal(t, int64(-12), repBalance)
}

func TestWorkflow_RejectsNonPositiveQuantities(t *testing.T) {
	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	wf, _ := newWorkflow(now)
	ctx := context.Background()

	_, err := wf.IssueToRep(ctx, "item-a", "rep-1", 0)
	assert.True(t, ledger.IsValidation(err))

	_, err = wf.TransferToShop(ctx, "item-a", "rep-1", "shop-9", -5)
	assert.True(t, ledger.IsValidation(err))
}

func TestWorkflow_DeductingOps_NeverCheckBalance(t *testing.T) {
	// GIVEN: A rep holding nothing
	// WHEN: Transferring 20 units anyway
	// THEN: The operation succeeds and the projection goes negative
	//
	// The field flow is never blocked on a projection that may lag the
	// physical truck; overdraft shows up as a raw negative instead.

	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	wf, st := newWorkflow(now)
	ctx := context.Background()

	_, err := wf.TransferToShop(ctx, "item-a", "rep-1", "shop-9", 20)
	require.NoError(t, err, "overdraft must not be rejected")

	policy := ledger.DailyResetPolicy{Loc: time.UTC}
	got := projectAt(t, st, "rep-1", "item-a", policy.CurrentWindow(now))
	assert.Equal(t, int64(-20), got)
}
