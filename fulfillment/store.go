// store.go - Persistence interface for requests and request items.
//
// Request rows are owned by the ordering workflow (OrderBook); the Matcher
// only reads them. Unlike stock movements, request items ARE mutated:
// DeliveredQty climbs as deliveries land, and a request's status moves
// through pending -> fulfilled/cancelled.
package fulfillment

import (
	"context"
	"time"

	"github.com/fieldline/stock-engine/ledger"
)

// RequestStore persists requests and their lines.
type RequestStore interface {
	// CreateRequest inserts a request together with its items.
	CreateRequest(ctx context.Context, req Request, items []RequestItem) error

	// GetRequest returns a request and its items, or ErrRequestNotFound.
	GetRequest(ctx context.Context, id RequestID) (Request, []RequestItem, error)

	// PendingRequests returns every pending request for the given shops.
	PendingRequests(ctx context.Context, shopIDs []ShopID) ([]Request, error)

	// RequestItems returns all items belonging to the given requests.
	RequestItems(ctx context.Context, requestIDs []RequestID) ([]RequestItem, error)

	// HasPendingBetween reports whether the shop has a pending request
	// dated within [from, to]. Used for the one-per-day rule.
	HasPendingBetween(ctx context.Context, shopID ShopID, from, to time.Time) (bool, error)

	// SetDelivered updates the delivered quantity on one line.
	SetDelivered(ctx context.Context, id RequestID, itemID ledger.ItemID, delivered int64) error

	// SetStatus moves a request to a new status.
	SetStatus(ctx context.Context, id RequestID, status RequestStatus) error
}
