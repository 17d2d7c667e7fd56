package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldline/stock-engine/ledger"
)

func TestWindow_Contains_InclusiveBothEnds(t *testing.T) {
	start := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	w := ledger.Window{Start: start, End: end}

	assert.True(t, w.Contains(start), "Start itself is inside")
	assert.True(t, w.Contains(end), "End itself is inside")
	assert.True(t, w.Contains(start.Add(time.Hour)))
	assert.False(t, w.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(end.Add(time.Nanosecond)))
}

func TestDailyReset_CurrentWindow_StartsAtLocalMidnight(t *testing.T) {
	// GIVEN: 09:15 local time in a UTC+2 operation
	// WHEN: Computing the representative window
	// THEN: Start is local midnight of that calendar day, End is now

	zone := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2026, time.March, 3, 9, 15, 0, 0, zone)

	policy := ledger.DailyResetPolicy{Loc: zone}
	w := policy.CurrentWindow(now)

	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, zone), w.Start)
	assert.Equal(t, now, w.End)
}

func TestDailyReset_CurrentWindow_TimezoneDecidesTheDay(t *testing.T) {
	// GIVEN: 23:30 UTC on March 3, which is already 01:30 March 4 in UTC+2
	// WHEN: Computing the window in the UTC+2 operating zone
	// THEN: The window starts at March 4 local midnight, not March 3
	//
	// "Local midnight" means the operation's timezone, never the server's.

	zone := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2026, time.March, 3, 23, 30, 0, 0, time.UTC)

	policy := ledger.DailyResetPolicy{Loc: zone}
	w := policy.CurrentWindow(now)

	assert.Equal(t, time.Date(2026, time.March, 4, 0, 0, 0, 0, zone), w.Start)
	assert.True(t, w.Contains(now))
}

func TestDailyReset_JustBeforeAndAfterMidnight(t *testing.T) {
	// Two instants a minute apart straddling local midnight land in
	// different windows. This boundary is what makes yesterday's stock
	// vanish from today's projection.

	policy := ledger.DailyResetPolicy{Loc: time.UTC}

	before := time.Date(2026, time.March, 3, 23, 59, 0, 0, time.UTC)
	after := time.Date(2026, time.March, 4, 0, 0, 30, 0, time.UTC)

	wBefore := policy.CurrentWindow(before)
	wAfter := policy.CurrentWindow(after)

	assert.True(t, wBefore.Contains(before))
	assert.False(t, wAfter.Contains(before), "yesterday evening is outside today's window")
	assert.Equal(t, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC), wAfter.Start)
}

func TestCumulativeWindow_EpochToNow(t *testing.T) {
	policy := ledger.DailyResetPolicy{Loc: time.UTC}
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)

	w := policy.CumulativeWindow(now)

	assert.Equal(t, time.Unix(0, 0).UTC(), w.Start)
	assert.Equal(t, now, w.End)
	assert.True(t, w.Contains(time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC)),
		"years-old movements stay inside the cumulative window")
}

func TestWindowFor_OnlyRepresentativesReset(t *testing.T) {
	policy := ledger.DailyResetPolicy{Loc: time.UTC}
	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, midnight, policy.WindowFor(ledger.ActorRepresentative, now).Start)
	assert.Equal(t, time.Unix(0, 0).UTC(), policy.WindowFor(ledger.ActorShop, now).Start)
	assert.Equal(t, time.Unix(0, 0).UTC(), policy.WindowFor(ledger.ActorWarehouse, now).Start)
}
