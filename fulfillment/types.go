/*
Package fulfillment matches outstanding shop orders against the stock a
representative currently carries.

It sits on top of the ledger engine: pending request lines are aggregated
across the shops assigned to a representative and compared with the
projected daily balance to classify each item as READY or DEFICIT.
*/
package fulfillment

import (
	"time"

	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// REQUESTS - A shop's order
// =============================================================================

type RequestID string
type ShopID string

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusFulfilled RequestStatus = "fulfilled"
	StatusCancelled RequestStatus = "cancelled"
)

// Request is a shop's order. A request and its items are created together;
// at most one pending request may exist per shop per calendar day (enforced
// by OrderBook with a check-then-insert, see orders.go).
type Request struct {
	ID     RequestID
	ShopID ShopID
	Status RequestStatus
	Date   time.Time
}

// RequestItem is one order line. Pending quantity must stay >= 0.
type RequestItem struct {
	RequestID    RequestID
	ItemID       ledger.ItemID
	RequestedQty int64
	DeliveredQty int64
}

// PendingQty is what is still owed on this line.
func (ri RequestItem) PendingQty() int64 {
	return ri.RequestedQty - ri.DeliveredQty
}

// =============================================================================
// FULFILLMENT CLASSIFICATION
// =============================================================================

// DeploymentStatus classifies whether on-hand stock covers aggregate demand.
type DeploymentStatus string

const (
	StatusReady   DeploymentStatus = "READY"
	StatusDeficit DeploymentStatus = "DEFICIT"
)

// ItemFulfillment is the per-item output of Matcher.Match.
type ItemFulfillment struct {
	ItemID   ledger.ItemID
	ItemName string

	// AggregatePendingQty sums pending quantity across every shop in the
	// match: three shops wanting 10 each yields 30.
	AggregatePendingQty int64

	// AvailableStock is the projected daily balance clamped to >= 0 for
	// display. The raw signed value stays in the ledger.
	AvailableStock int64

	Status DeploymentStatus
}
