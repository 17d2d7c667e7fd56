/*
ledger.go - Validated append to the movement log

PURPOSE:
  TransactionLedger is the single write path into the stock ledger.
  It validates caller input, stamps identity and time, and appends via
  the Store. Nothing else writes movements.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once written, movements cannot be modified
  3. AUDITABLE: Every stock change is traceable to one movement

WHY APPEND-ONLY?
  - Audit trail: You can always explain how a balance got to its value
  - Debugging: "Why does rep-3 show -20?" -> Look at the movement history
  - Correctness: No risk of partial updates corrupting state

IDEMPOTENCY:
  The ledger does NOT deduplicate. A retried append writes a second
  movement. Callers needing idempotent retries must carry their own
  correlation key in Reference and dedupe upstream.

CORRECTIONS:
  A mistaken movement is never edited. Append a compensating movement of
  the opposite direction; both remain in the history.
*/
package ledger

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// TRANSACTION LEDGER - The only write path
// =============================================================================

// TransactionLedger validates and appends stock movements.
type TransactionLedger struct {
	Store Store
	Clock Clock
}

func NewTransactionLedger(store Store, clock Clock) *TransactionLedger {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TransactionLedger{Store: store, Clock: clock}
}

// Append validates in, assigns ID and CreatedAt, persists, and returns the
// stored record.
//
// Failure modes:
//   - *ValidationError (ErrValidation) for malformed input
//   - *PersistenceError (ErrPersistence) when the store fails; the append
//     is NOT retried here, since a blind retry could double-count stock
func (l *TransactionLedger) Append(ctx context.Context, in StockMovementInput) (StockMovement, error) {
	if err := validateInput(in); err != nil {
		return StockMovement{}, err
	}

	m := StockMovement{
		ID:        MovementID(uuid.NewString()),
		ItemID:    in.ItemID,
		ActorID:   in.ActorID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		CreatedAt: l.Clock.Now(),
	}

	if err := l.Store.Append(ctx, m); err != nil {
		return StockMovement{}, &PersistenceError{Op: "append", Err: err}
	}
	return m, nil
}

func validateInput(in StockMovementInput) error {
	if in.ItemID == "" {
		return &ValidationError{Field: "itemId", Reason: "is required"}
	}
	if in.ActorID == "" {
		return &ValidationError{Field: "actorId", Reason: "is required"}
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "movementType", Reason: "is not a recognized type"}
	}
	if in.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	return nil
}
