/*
orders.go - Shop order lifecycle

PURPOSE:
  OrderBook owns the Request/RequestItem rows: it opens a shop's daily
  order, records deliveries against it, and closes or cancels it. The
  Matcher only ever reads what OrderBook writes.

ONE PENDING REQUEST PER SHOP PER DAY:
  Enforced with a check-then-insert. Two near-simultaneous submissions can
  both pass the check; that benign race is a known, accepted weakness of
  the upstream system and is deliberately NOT papered over with a lock
  here. The persistent store may add a unique index if it wants a harder
  guarantee.

DELIVERY:
  Deliveries raise DeliveredQty, never past RequestedQty (pending quantity
  stays >= 0). When every line reaches zero pending, the request flips to
  fulfilled. Recording the matching TRANSFER_OUT movement is the caller's
  job via TransferWorkflow - the order book tracks the paperwork, the
  ledger tracks the stock.
*/
package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// ORDER BOOK
// =============================================================================

// Line is one requested item on a new order.
type Line struct {
	ItemID ledger.ItemID
	Qty    int64
}

// OrderBook manages the request lifecycle.
type OrderBook struct {
	Requests RequestStore
	Clock    ledger.Clock
}

func NewOrderBook(store RequestStore, clock ledger.Clock) *OrderBook {
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	return &OrderBook{Requests: store, Clock: clock}
}

// Open creates a pending request with its lines. Lines with qty <= 0 are
// rejected outright rather than silently dropped.
func (ob *OrderBook) Open(ctx context.Context, shopID ShopID, lines []Line) (Request, error) {
	if shopID == "" {
		return Request{}, fmt.Errorf("%w: shop id is required", ErrEmptyRequest)
	}
	if len(lines) == 0 {
		return Request{}, ErrEmptyRequest
	}
	for _, l := range lines {
		if l.ItemID == "" || l.Qty <= 0 {
			return Request{}, fmt.Errorf("%w: line %q qty %d", ErrEmptyRequest, l.ItemID, l.Qty)
		}
	}

	now := ob.Clock.Now()

	// Check-then-insert; see the package note about the benign race.
	dayStart, dayEnd := calendarDay(now, ob.Clock.Location())
	exists, err := ob.Requests.HasPendingBetween(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return Request{}, err
	}
	if exists {
		return Request{}, ErrDuplicatePendingRequest
	}

	req := Request{
		ID:     RequestID(uuid.NewString()),
		ShopID: shopID,
		Status: StatusPending,
		Date:   now,
	}
	items := make([]RequestItem, len(lines))
	for i, l := range lines {
		items[i] = RequestItem{
			RequestID:    req.ID,
			ItemID:       l.ItemID,
			RequestedQty: l.Qty,
		}
	}
	if err := ob.Requests.CreateRequest(ctx, req, items); err != nil {
		return Request{}, err
	}
	return req, nil
}

// RecordDelivery raises DeliveredQty for one line. When every line of the
// request reaches zero pending, the request becomes fulfilled.
func (ob *OrderBook) RecordDelivery(ctx context.Context, id RequestID, itemID ledger.ItemID, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("%w: delivery qty %d", ErrOverDelivery, qty)
	}

	req, items, err := ob.Requests.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrNotPending
	}

	var line *RequestItem
	for i := range items {
		if items[i].ItemID == itemID {
			line = &items[i]
			break
		}
	}
	if line == nil {
		return ErrLineNotFound
	}
	if line.DeliveredQty+qty > line.RequestedQty {
		return ErrOverDelivery
	}

	line.DeliveredQty += qty
	if err := ob.Requests.SetDelivered(ctx, id, itemID, line.DeliveredQty); err != nil {
		return err
	}

	for _, it := range items {
		if it.PendingQty() > 0 {
			return nil
		}
	}
	return ob.Requests.SetStatus(ctx, id, StatusFulfilled)
}

// Cancel voids a pending request.
func (ob *OrderBook) Cancel(ctx context.Context, id RequestID) error {
	req, _, err := ob.Requests.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrNotPending
	}
	return ob.Requests.SetStatus(ctx, id, StatusCancelled)
}

// calendarDay returns [00:00:00, 23:59:59.999999999] of t's day in loc.
func calendarDay(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
