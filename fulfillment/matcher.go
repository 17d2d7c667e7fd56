/*
matcher.go - Pending demand vs carried stock

PURPOSE:
  Answers the storekeeper's morning question: "of everything the shops on
  this route are waiting for, what can the rep actually deliver today?"

ALGORITHM:
  1. Fetch pending requests for the given shops
  2. Fetch their lines; drop lines with pendingQty <= 0
  3. Group by item, summing pendingQty across shops (no double-counting:
     each line is read once, each item appears once in the output)
  4. Project the rep's balance per item over the daily-reset window
  5. READY if availableStock >= aggregatePendingQty, else DEFICIT

ORDERING:
  Output is sorted by item id so a fixed input always yields the same
  result, which keeps tests and diffed reports reproducible.

EDGE CASE:
  An item nobody is waiting on (aggregate pending 0) never appears, even
  when the rep carries plenty of it.
*/
package fulfillment

import (
	"context"
	"sort"
	"time"

	"github.com/fieldline/stock-engine/catalog"
	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// MATCHER
// =============================================================================

// Matcher classifies pending demand against a representative's projected
// daily balance.
type Matcher struct {
	Requests  RequestStore
	Projector *ledger.BalanceProjector
	Policy    ledger.DailyResetPolicy

	// Items resolves display names; nil is allowed, ids are shown raw.
	Items catalog.Directory
}

// Match aggregates pending request lines across shopIDs and compares each
// item's total against repID's projected balance at now.
func (m *Matcher) Match(ctx context.Context, repID ledger.ActorID, shopIDs []ShopID, now time.Time) ([]ItemFulfillment, error) {
	requests, err := m.Requests.PendingRequests(ctx, shopIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}

	ids := make([]RequestID, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	lines, err := m.Requests.RequestItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	pending := make(map[ledger.ItemID]int64)
	for _, line := range lines {
		if p := line.PendingQty(); p > 0 {
			pending[line.ItemID] += p
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	// One pass over the rep's daily window instead of a projection per item.
	// Identical by contract to per-item Project calls.
	window := m.Policy.CurrentWindow(now)
	balances, err := m.Projector.ProjectAll(ctx, repID, window)
	if err != nil {
		return nil, err
	}

	result := make([]ItemFulfillment, 0, len(pending))
	for itemID, wanted := range pending {
		available := ledger.ClampForDisplay(balances[itemID])
		status := StatusDeficit
		if available >= wanted {
			status = StatusReady
		}
		result = append(result, ItemFulfillment{
			ItemID:              itemID,
			ItemName:            catalog.DisplayName(ctx, m.Items, itemID),
			AggregatePendingQty: wanted,
			AvailableStock:      available,
			Status:              status,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ItemID < result[j].ItemID
	})
	return result, nil
}
