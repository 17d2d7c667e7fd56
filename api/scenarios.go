/*
scenarios.go - Demo data loaders

PURPOSE:
  Seeds a recognizable day of field activity so the admin console has
  something to show during demos and manual testing. Each scenario writes
  through the same workflow/order paths the real apps use - no direct
  row inserts - so the seeded data obeys every engine rule.
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fieldline/stock-engine/catalog"
	"github.com/fieldline/stock-engine/fulfillment"
	"github.com/fieldline/stock-engine/ledger"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "route-day",
		Name:        "Route day",
		Description: "One rep issued stock in the morning, two shops with pending orders, a partial transfer already made.",
	},
	{
		ID:          "overdraft",
		Name:        "Overdraft",
		Description: "A rep who transferred more than was issued today; the projected balance goes negative.",
	},
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, scenarios)
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, badBody(err))
		return
	}

	var err error
	switch req.ID {
	case "route-day":
		err = h.loadRouteDay(r.Context())
	case "overdraft":
		err = h.loadOverdraft(r.Context())
	default:
		h.writeError(w, &ledger.ValidationError{Field: "id", Reason: fmt.Sprintf("unknown scenario %q", req.ID)})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadRouteDay(ctx context.Context) error {
	items := []catalog.Item{
		{ID: "item-cola-330", SKU: "CL-330", Name: "Cola 330ml", Unit: "crate", UnitPrice: decimal.RequireFromString("8.40")},
		{ID: "item-water-500", SKU: "WT-500", Name: "Water 500ml", Unit: "crate", UnitPrice: decimal.RequireFromString("4.10")},
		{ID: "item-chips-50", SKU: "CH-050", Name: "Chips 50g", Unit: "box", UnitPrice: decimal.RequireFromString("12.00")},
	}
	for _, it := range items {
		if err := h.Items.SaveItem(ctx, it); err != nil {
			return err
		}
	}

	rep := ledger.ActorID("rep-1")
	if _, err := h.Workflow.IssueToRep(ctx, "item-cola-330", rep, 40); err != nil {
		return err
	}
	if _, err := h.Workflow.IssueToRep(ctx, "item-water-500", rep, 30); err != nil {
		return err
	}
	if _, err := h.Workflow.IssueToRep(ctx, "item-chips-50", rep, 10); err != nil {
		return err
	}
	if _, err := h.Workflow.TransferToShop(ctx, "item-cola-330", rep, "shop-corner", 10); err != nil {
		return err
	}

	if _, err := h.Orders.Open(ctx, "shop-corner", []fulfillment.Line{
		{ItemID: "item-cola-330", Qty: 20},
		{ItemID: "item-chips-50", Qty: 15},
	}); err != nil {
		return err
	}
	_, err := h.Orders.Open(ctx, "shop-market", []fulfillment.Line{
		{ItemID: "item-cola-330", Qty: 12},
		{ItemID: "item-water-500", Qty: 25},
	})
	return err
}

func (h *Handler) loadOverdraft(ctx context.Context) error {
	if err := h.Items.SaveItem(ctx, catalog.Item{
		ID: "item-cola-330", SKU: "CL-330", Name: "Cola 330ml", Unit: "crate",
		UnitPrice: decimal.RequireFromString("8.40"),
	}); err != nil {
		return err
	}

	rep := ledger.ActorID("rep-2")
	if _, err := h.Workflow.IssueToRep(ctx, "item-cola-330", rep, 5); err != nil {
		return err
	}
	// Deliberately more out than in: projection goes to -15 and stays that
	// way in the ledger; only displays clamp.
	_, err := h.Workflow.TransferToShop(ctx, "item-cola-330", rep, "shop-corner", 20)
	return err
}
