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

func TestProject_SignPerMovementType(t *testing.T) {
	// Each of the six types, one at a time, against an otherwise empty
	// history. The fold must apply exactly the documented sign.

	cases := []struct {
		typ  ledger.MovementType
		want int64
	}{
		{ledger.MovementIssue, 7},
		{ledger.MovementReturnIn, 7},
		{ledger.MovementTransferOut, -7},
		{ledger.MovementReturnToHQ, -7},
		{ledger.MovementSale, -7},
		{ledger.MovementReturn, -7},
	}

	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			st := store.NewMemory()
			require.NoError(t, st.Append(context.Background(),
				movement("rep-1", "item-a", tc.typ, 7, day.Add(9*time.Hour))))

			got := projectAt(t, st, "rep-1", "item-a", allDay(day))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProject_IsolatedByActorAndItem(t *testing.T) {
	// GIVEN: Movements for two reps and two items interleaved
	// WHEN: Projecting one (actor, item) pair
	// THEN: Only that pair's movements count

	ctx := context.Background()
	st := store.NewMemory()
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	st.Append(ctx, movement("rep-1", "item-a", ledger.MovementIssue, 10, day.Add(8*time.Hour)))
	st.Append(ctx, movement("rep-1", "item-b", ledger.MovementIssue, 99, day.Add(8*time.Hour)))
	st.Append(ctx, movement("rep-2", "item-a", ledger.MovementIssue, 99, day.Add(8*time.Hour)))

	assert.Equal(t, int64(10), projectAt(t, st, "rep-1", "item-a", allDay(day)))
}

func TestProjectAll_MatchesPerItemProject(t *testing.T) {
	// GIVEN: A rep carrying three items with mixed movements
	// WHEN: Projecting all items in one pass
	// THEN: Every entry equals the per-item Project result, and items with
	//       no movements are absent

	ctx := context.Background()
	st := store.NewMemory()
	day := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	st.Append(ctx, movement("rep-1", "item-a", ledger.MovementIssue, 40, day.Add(7*time.Hour)))
	st.Append(ctx, movement("rep-1", "item-a", ledger.MovementTransferOut, 12, day.Add(9*time.Hour)))
	st.Append(ctx, movement("rep-1", "item-b", ledger.MovementIssue, 5, day.Add(7*time.Hour)))
	st.Append(ctx, movement("rep-1", "item-c", ledger.MovementTransferOut, 8, day.Add(10*time.Hour)))

	p := ledger.NewBalanceProjector(st)
	w := allDay(day)

	all, err := p.ProjectAll(ctx, "rep-1", w)
	require.NoError(t, err)
	require.Len(t, all, 3)

	for itemID, got := range all {
		single, err := p.Project(ctx, "rep-1", itemID, w)
		require.NoError(t, err)
		assert.Equal(t, single, got, "ProjectAll and Project disagree on %s", itemID)
	}

	assert.Equal(t, int64(28), all["item-a"])
	assert.Equal(t, int64(5), all["item-b"])
	assert.Equal(t, int64(-8), all["item-c"], "overdrawn item stays raw in ProjectAll too")
	assert.NotContains(t, all, ledger.ItemID("item-d"))
}

func TestClampForDisplay(t *testing.T) {
	assert.Equal(t, int64(0), ledger.ClampForDisplay(-15))
	assert.Equal(t, int64(0), ledger.ClampForDisplay(0))
	assert.Equal(t, int64(30), ledger.ClampForDisplay(30))
}
