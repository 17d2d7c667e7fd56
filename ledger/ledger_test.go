package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/stock-engine/ledger"
	"github.com/fieldline/stock-engine/ledger/store"
)

// =============================================================================
// VALIDATION
// =============================================================================

func TestAppend_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		in    ledger.StockMovementInput
		field string
	}{
		{
			name:  "missing item",
			in:    ledger.StockMovementInput{ActorID: "rep-1", Type: ledger.MovementIssue, Quantity: 5},
			field: "itemId",
		},
		{
			name:  "missing actor",
			in:    ledger.StockMovementInput{ItemID: "item-a", Type: ledger.MovementIssue, Quantity: 5},
			field: "actorId",
		},
		{
			name:  "unknown type",
			in:    ledger.StockMovementInput{ItemID: "item-a", ActorID: "rep-1", Type: "TELEPORT", Quantity: 5},
			field: "movementType",
		},
		{
			name:  "zero quantity",
			in:    ledger.StockMovementInput{ItemID: "item-a", ActorID: "rep-1", Type: ledger.MovementIssue, Quantity: 0},
			field: "quantity",
		},
		{
			name:  "negative quantity",
			in:    ledger.StockMovementInput{ItemID: "item-a", ActorID: "rep-1", Type: ledger.MovementSale, Quantity: -3},
			field: "quantity",
		},
	}

	led := ledger.NewTransactionLedger(store.NewMemory(), nil)
	ctx := context.Background()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := led.Append(ctx, tc.in)
			require.Error(t, err)
			assert.True(t, ledger.IsValidation(err), "should be a validation error")

			var verr *ledger.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestAppend_StampsIdentityAndTime(t *testing.T) {
	// GIVEN: Valid input with no ID or timestamp
	// WHEN: Appending through the ledger
	// THEN: The stored movement carries a fresh ID and the clock's time

	now := time.Date(2026, time.March, 3, 10, 30, 0, 0, time.UTC)
	led := ledger.NewTransactionLedger(store.NewMemory(), fixedClock{now: now})

	m, err := led.Append(context.Background(), ledger.StockMovementInput{
		ItemID:    "item-a",
		ActorID:   "rep-1",
		Type:      ledger.MovementTransferOut,
		Quantity:  4,
		Reference: "shop-9",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID, "ID should be assigned")
	assert.Equal(t, now, m.CreatedAt)
	assert.Equal(t, "shop-9", m.Reference, "reference passes through untouched")
	assert.Equal(t, int64(-4), m.SignedQuantity())

	m2, err := led.Append(context.Background(), ledger.StockMovementInput{
		ItemID: "item-a", ActorID: "rep-1", Type: ledger.MovementIssue, Quantity: 1,
	})
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, m2.ID, "IDs should be unique per append")
}

// =============================================================================
// STORE FAILURES
// =============================================================================

// failingStore always fails on write; reads are never reached in these tests.
type failingStore struct {
	cause error
}

func (f failingStore) Append(context.Context, ledger.StockMovement) error { return f.cause }

func (f failingStore) LoadRange(context.Context, ledger.ActorID, ledger.ItemID, time.Time, time.Time) ([]ledger.StockMovement, error) {
	return nil, f.cause
}

func (f failingStore) LoadByActor(context.Context, ledger.ActorID, time.Time, time.Time) ([]ledger.StockMovement, error) {
	return nil, f.cause
}

func TestAppend_StoreFailure_WrappedNotRetried(t *testing.T) {
	// GIVEN: A store that fails on write
	// WHEN: Appending
	// THEN: The error is a PersistenceError preserving the cause; the append
	//       is not retried (a blind retry could double-count stock)

	cause := errors.New("disk full")
	led := ledger.NewTransactionLedger(failingStore{cause: cause}, nil)

	_, err := led.Append(context.Background(), ledger.StockMovementInput{
		ItemID: "item-a", ActorID: "rep-1", Type: ledger.MovementIssue, Quantity: 1,
	})
	require.Error(t, err)

	assert.True(t, ledger.IsPersistence(err))
	assert.False(t, ledger.IsValidation(err))
	assert.ErrorIs(t, err, cause, "the underlying cause must stay reachable")

	var perr *ledger.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "append", perr.Op)
}

func TestProject_StoreFailure_Wrapped(t *testing.T) {
	cause := errors.New("connection reset")
	p := ledger.NewBalanceProjector(failingStore{cause: cause})

	_, err := p.Project(context.Background(), "rep-1", "item-a", ledger.Window{})
	require.Error(t, err)
	assert.True(t, ledger.IsPersistence(err))
	assert.ErrorIs(t, err, cause)
}
