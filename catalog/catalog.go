/*
Package catalog holds the item directory the rest of the system refers to.

PURPOSE:
  Movements and request lines carry opaque item ids; the catalog is where
  those ids resolve to something a human can read. Unit prices are stored
  for display on order sheets - price COMPUTATION (commissions, totals,
  discounts) happens elsewhere and is not this module's concern.

PRECISION:
  Prices use decimal.Decimal. Quantities elsewhere in the engine stay
  int64 because stock is counted in whole units.
*/
package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fieldline/stock-engine/ledger"
)

// ErrItemNotFound is returned when an item id has no catalog entry.
var ErrItemNotFound = errors.New("item not found")

// Item is one catalog entry.
type Item struct {
	ID        ledger.ItemID
	SKU       string
	Name      string
	Unit      string // "piece", "box", "crate"
	UnitPrice decimal.Decimal
}

// Directory resolves and stores catalog items.
type Directory interface {
	// Item returns the entry for id, or ErrItemNotFound.
	Item(ctx context.Context, id ledger.ItemID) (Item, error)

	// ListItems returns all entries, ordered by name.
	ListItems(ctx context.Context) ([]Item, error)

	// SaveItem inserts or replaces an entry.
	SaveItem(ctx context.Context, item Item) error
}

// DisplayName resolves id through dir, falling back to the raw id when the
// directory is missing or has no entry. Fulfillment output must never fail
// just because a catalog row is absent.
func DisplayName(ctx context.Context, dir Directory, id ledger.ItemID) string {
	if dir == nil {
		return string(id)
	}
	item, err := dir.Item(ctx, id)
	if err != nil {
		return string(id)
	}
	return item.Name
}
