/*
projector.go - Balance derivation from movement history

PURPOSE:
  Computes the current quantity an actor holds of an item by folding the
  movement history inside a window. This is the central calculation that
  answers "how much is on the truck right now?"

SIGN RULE (the core algorithm):
  ISSUE, RETURN_IN                          -> +quantity
  TRANSFER_OUT, RETURN_TO_HQ, SALE, RETURN  -> -quantity

KEY INSIGHT:
  The projector does NOT clamp. If movements are inconsistent upstream the
  derived value goes negative and that raw value is reported; it is the
  source of truth for auditing. Clamping to zero is a presentation concern
  and happens at the display edge only.

STALENESS:
  A projection may race with concurrent appends and read a snapshot that
  is behind the latest writes. Callers must not assume a projection
  reflects a write that returned moments earlier unless the store
  guarantees read-your-writes.
*/
package ledger

import "context"

// =============================================================================
// BALANCE PROJECTOR
// =============================================================================

// BalanceProjector folds movements into signed balances. It holds no state;
// every call recomputes from the store so concurrent writers can never leave
// a stale cached number behind.
type BalanceProjector struct {
	Store Store
}

func NewBalanceProjector(store Store) *BalanceProjector {
	return &BalanceProjector{Store: store}
}

// Project returns the signed balance for (actor, item) over w.
// An empty movement set projects to 0.
func (p *BalanceProjector) Project(ctx context.Context, actorID ActorID, itemID ItemID, w Window) (int64, error) {
	movements, err := p.Store.LoadRange(ctx, actorID, itemID, w.Start, w.End)
	if err != nil {
		return 0, &PersistenceError{Op: "load", Err: err}
	}

	var balance int64
	for _, m := range movements {
		balance += m.SignedQuantity()
	}
	return balance, nil
}

// ProjectAll performs the same fold grouped by item in one pass over the
// actor's movements. Results are identical to calling Project once per item;
// items with no movements in the window are absent from the map.
func (p *BalanceProjector) ProjectAll(ctx context.Context, actorID ActorID, w Window) (map[ItemID]int64, error) {
	movements, err := p.Store.LoadByActor(ctx, actorID, w.Start, w.End)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	balances := make(map[ItemID]int64)
	for _, m := range movements {
		balances[m.ItemID] += m.SignedQuantity()
	}
	return balances, nil
}

// ClampForDisplay is the presentation-only clamp: negative derived values
// render as zero while the underlying signed value stays untouched in the
// ledger.
func ClampForDisplay(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
