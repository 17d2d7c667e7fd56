/*
store.go - Persistence interface for stock movements

PURPOSE:
  Defines the boundary between the ledger engine and the database.
  Implementations exist for memory (ledger/store), SQLite (store/sqlite)
  and PostgreSQL (store/postgres).

APPEND-ONLY CONTRACT:
  The Store interface enforces append-only semantics on movements:
  - Append(): single movement write
  - NO Update() or Delete() methods exist
  Corrections are made via compensating movements.

CONCURRENCY:
  Concurrent appends never conflict; each row is independent. Reads may
  observe a snapshot that is behind the latest writes - callers must not
  assume read-your-writes unless the backing store guarantees it.
*/
package ledger

import (
	"context"
	"time"
)

// Store handles persistence of stock movements.
// IMPORTANT: Store is APPEND-ONLY for movements. No Update, No Delete. Ever.
type Store interface {
	// Append persists a movement. This is the ONLY write operation.
	Append(ctx context.Context, m StockMovement) error

	// LoadRange returns movements for (actor, item) with
	// from <= CreatedAt <= to, ordered by CreatedAt.
	LoadRange(ctx context.Context, actorID ActorID, itemID ItemID, from, to time.Time) ([]StockMovement, error)

	// LoadByActor returns ALL movements for an actor across items in
	// [from, to], ordered by CreatedAt. Used by grouped projections and
	// audit/history views.
	LoadByActor(ctx context.Context, actorID ActorID, from, to time.Time) ([]StockMovement, error)
}
