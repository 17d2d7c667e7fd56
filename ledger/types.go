/*
Package ledger provides the core stock ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  physical inventory as it flows between a central warehouse, field
  representatives, and retail shops. Stock is never stored as a number;
  it is always derived by folding the movement history.

KEY CONCEPTS IN THIS FILE (types.go):
  - StockMovement: An immutable ledger entry recording a directional move
  - MovementType: Tagged union encoding direction (sign) of a movement
  - ActorKind: Who holds the stock (representative, shop, warehouse)
  - Item/Actor/Movement IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Movements are never updated or deleted, only compensated
  2. Direction by type: Quantity is always positive; MovementType carries sign
  3. Derived balance: Balance is recomputed from history on every query
  4. Type Safety: Strong typing for IDs prevents mixing actor/item IDs

SEE ALSO:
  - ledger.go: Validated append (TransactionLedger)
  - projector.go: Balance derivation from movement history
  - window.go: Daily-reset window policy
  - workflow.go: Higher-level transfer operations
*/
package ledger

import "time"

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ItemID string
type ActorID string
type MovementID string

// ActorKind classifies who holds inventory. Representatives get the
// daily-reset balance window; shops and the warehouse are cumulative.
type ActorKind string

const (
	ActorRepresentative ActorKind = "representative"
	ActorShop           ActorKind = "shop"
	ActorWarehouse      ActorKind = "warehouse"
)

// =============================================================================
// MOVEMENT TYPE - Direction is encoded here, never in the quantity sign
// =============================================================================

type MovementType string

const (
	// MovementIssue records stock handed from the warehouse to a representative.
	MovementIssue MovementType = "ISSUE"

	// MovementReturnIn records stock coming back to a representative from a
	// shop or customer.
	MovementReturnIn MovementType = "RETURN_IN"

	// MovementTransferOut records stock handed from a representative to a shop.
	// Only the representative side is tracked; see TransferWorkflow.TransferToShop.
	MovementTransferOut MovementType = "TRANSFER_OUT"

	// MovementReturnToHQ records stock handed back to the warehouse.
	MovementReturnToHQ MovementType = "RETURN_TO_HQ"

	// MovementSale is a legacy deducting type: representative stock consumed
	// directly by a sale. Still accepted on read and write.
	MovementSale MovementType = "SALE"

	// MovementReturn is a legacy synonym for a deduction. Still accepted on
	// read and write; neither legacy type supersedes the other.
	MovementReturn MovementType = "RETURN"
)

// movementSigns is the single source of truth for both validity and direction.
var movementSigns = map[MovementType]int64{
	MovementIssue:       +1,
	MovementReturnIn:    +1,
	MovementTransferOut: -1,
	MovementReturnToHQ:  -1,
	MovementSale:        -1,
	MovementReturn:      -1,
}

// Valid reports whether t is one of the six recognized movement types.
func (t MovementType) Valid() bool {
	_, ok := movementSigns[t]
	return ok
}

// Sign returns +1 for inbound movements, -1 for outbound, 0 for unknown types.
func (t MovementType) Sign() int64 {
	return movementSigns[t]
}

// Inbound reports whether the movement adds to the actor's balance.
func (t MovementType) Inbound() bool { return movementSigns[t] > 0 }

// =============================================================================
// STOCK MOVEMENT - Immutable, append-only ledger entry
// =============================================================================

// StockMovement is one signed, immutable stock event.
//
// INVARIANT: once persisted a movement is never updated or deleted.
// Corrections are made by appending a compensating movement.
type StockMovement struct {
	ID       MovementID
	ItemID   ItemID
	ActorID  ActorID
	Type     MovementType
	Quantity int64 // always positive; direction comes from Type

	// Reference is an opaque correlation value supplied by the caller:
	// the destination shop of a transfer, a client retry key, a sale id.
	// The ledger never interprets it.
	Reference string

	CreatedAt time.Time
}

// SignedQuantity returns the movement's contribution to a balance fold.
func (m StockMovement) SignedQuantity() int64 {
	return m.Type.Sign() * m.Quantity
}

// StockMovementInput is the caller-supplied part of a movement.
// ID and CreatedAt are assigned by TransactionLedger.Append.
type StockMovementInput struct {
	ItemID    ItemID
	ActorID   ActorID
	Type      MovementType
	Quantity  int64
	Reference string
}
