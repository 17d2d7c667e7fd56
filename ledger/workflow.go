/*
workflow.go - Named transfer operations over the ledger

PURPOSE:
  TransferWorkflow names the valid stock operations and the movement each
  one produces. It is stateless: there is no separate workflow table, and
  "state" is entirely reconstructible from the ledger.

OPERATIONS:
  IssueToRep        warehouse -> rep     one ISSUE on the rep
  TransferToShop    rep -> shop          one TRANSFER_OUT on the rep
  ReturnToRep       shop/customer -> rep one RETURN_IN on the rep
  ReturnToWarehouse rep -> warehouse     one RETURN_TO_HQ on the rep

KNOWN ASYMMETRY:
  TransferToShop records only the representative side. The shop-side
  receipt is a separate bookkeeping concern that the upstream system never
  reconciled server-side; a symmetric shop ledger would be a future
  extension, not something to invent here. The destination shop is kept as
  an opaque Reference on the rep-side movement so the audit trail still
  says where the stock went.

OVERDRAFT:
  No operation checks that the actor currently holds enough stock before a
  deducting movement. Overdraft simply yields a negative projected balance.
  This favors auditability over hard enforcement: the field flow must never
  be blocked because a projection lags the physical truck.

FAILURE:
  Each operation writes exactly one movement, so a ledger failure leaves no
  partial state; the error propagates unchanged.
*/
package ledger

import "context"

// =============================================================================
// TRANSFER WORKFLOW
// =============================================================================

// TransferWorkflow is a thin state machine wrapping TransactionLedger.
type TransferWorkflow struct {
	Ledger *TransactionLedger
}

func NewTransferWorkflow(l *TransactionLedger) *TransferWorkflow {
	return &TransferWorkflow{Ledger: l}
}

// IssueToRep records stock leaving the warehouse onto a representative.
func (w *TransferWorkflow) IssueToRep(ctx context.Context, itemID ItemID, repID ActorID, qty int64) (StockMovement, error) {
	return w.Ledger.Append(ctx, StockMovementInput{
		ItemID:   itemID,
		ActorID:  repID,
		Type:     MovementIssue,
		Quantity: qty,
	})
}

// TransferToShop records stock leaving a representative for a shop.
// Rep-side only; shopID lands in Reference (see KNOWN ASYMMETRY above).
func (w *TransferWorkflow) TransferToShop(ctx context.Context, itemID ItemID, repID, shopID ActorID, qty int64) (StockMovement, error) {
	return w.Ledger.Append(ctx, StockMovementInput{
		ItemID:    itemID,
		ActorID:   repID,
		Type:      MovementTransferOut,
		Quantity:  qty,
		Reference: string(shopID),
	})
}

// ReturnToRep records a shop or customer return back onto a representative.
func (w *TransferWorkflow) ReturnToRep(ctx context.Context, itemID ItemID, repID ActorID, qty int64) (StockMovement, error) {
	return w.Ledger.Append(ctx, StockMovementInput{
		ItemID:   itemID,
		ActorID:  repID,
		Type:     MovementReturnIn,
		Quantity: qty,
	})
}

// ReturnToWarehouse records stock handed back from a representative to HQ.
func (w *TransferWorkflow) ReturnToWarehouse(ctx context.Context, itemID ItemID, repID ActorID, qty int64) (StockMovement, error) {
	return w.Ledger.Append(ctx, StockMovementInput{
		ItemID:   itemID,
		ActorID:  repID,
		Type:     MovementReturnToHQ,
		Quantity: qty,
	})
}
