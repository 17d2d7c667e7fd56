/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the admin-console API. These decouple the internal
  domain model from the wire contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain layer, not in DTOs.
  DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/fieldline/stock-engine/catalog"
	"github.com/fieldline/stock-engine/fulfillment"
	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// MOVEMENTS
// =============================================================================

type MovementDTO struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"itemId"`
	ActorID      string    `json:"actorId"`
	MovementType string    `json:"movementType"`
	Quantity     int64     `json:"quantity"`
	Signed       int64     `json:"signedQuantity"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toMovementDTO(m ledger.StockMovement) MovementDTO {
	return MovementDTO{
		ID:           string(m.ID),
		ItemID:       string(m.ItemID),
		ActorID:      string(m.ActorID),
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		Signed:       m.SignedQuantity(),
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt,
	}
}

type AppendMovementRequest struct {
	ItemID       string `json:"itemId"`
	ActorID      string `json:"actorId"`
	MovementType string `json:"movementType"`
	Quantity     int64  `json:"quantity"`
	Reference    string `json:"reference,omitempty"`
}

// =============================================================================
// BALANCES
// =============================================================================

type WindowDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BalanceDTO carries both the raw signed projection (source of truth) and
// the display clamp, so the console never has to re-derive either.
type BalanceDTO struct {
	ActorID string    `json:"actorId"`
	ItemID  string    `json:"itemId"`
	Window  WindowDTO `json:"window"`
	Balance int64     `json:"balance"`
	Display int64     `json:"displayBalance"`
}

type BalancesDTO struct {
	ActorID  string           `json:"actorId"`
	Window   WindowDTO        `json:"window"`
	Balances map[string]int64 `json:"balances"`
}

// =============================================================================
// WORKFLOW
// =============================================================================

type WorkflowRequest struct {
	ItemID string `json:"itemId"`
	RepID  string `json:"repId"`
	ShopID string `json:"shopId,omitempty"` // transfers only
	Qty    int64  `json:"qty"`
}

// =============================================================================
// FULFILLMENT
// =============================================================================

type ItemFulfillmentDTO struct {
	ItemID              string `json:"itemId"`
	ItemName            string `json:"itemName"`
	AggregatePendingQty int64  `json:"aggregatePendingQty"`
	AvailableStock      int64  `json:"availableStock"`
	DeploymentStatus    string `json:"deploymentStatus"`
}

func toFulfillmentDTOs(items []fulfillment.ItemFulfillment) []ItemFulfillmentDTO {
	out := make([]ItemFulfillmentDTO, len(items))
	for i, f := range items {
		out[i] = ItemFulfillmentDTO{
			ItemID:              string(f.ItemID),
			ItemName:            f.ItemName,
			AggregatePendingQty: f.AggregatePendingQty,
			AvailableStock:      f.AvailableStock,
			DeploymentStatus:    string(f.Status),
		}
	}
	return out
}

// =============================================================================
// REQUESTS
// =============================================================================

type OpenRequestLine struct {
	ItemID string `json:"itemId"`
	Qty    int64  `json:"qty"`
}

type OpenRequestRequest struct {
	ShopID string            `json:"shopId"`
	Lines  []OpenRequestLine `json:"lines"`
}

type RequestItemDTO struct {
	ItemID       string `json:"itemId"`
	RequestedQty int64  `json:"requestedQty"`
	DeliveredQty int64  `json:"deliveredQty"`
	PendingQty   int64  `json:"pendingQty"`
}

type RequestDTO struct {
	ID     string           `json:"id"`
	ShopID string           `json:"shopId"`
	Status string           `json:"status"`
	Date   time.Time        `json:"date"`
	Items  []RequestItemDTO `json:"items,omitempty"`
}

func toRequestDTO(req fulfillment.Request, items []fulfillment.RequestItem) RequestDTO {
	dto := RequestDTO{
		ID:     string(req.ID),
		ShopID: string(req.ShopID),
		Status: string(req.Status),
		Date:   req.Date,
	}
	for _, it := range items {
		dto.Items = append(dto.Items, RequestItemDTO{
			ItemID:       string(it.ItemID),
			RequestedQty: it.RequestedQty,
			DeliveredQty: it.DeliveredQty,
			PendingQty:   it.PendingQty(),
		})
	}
	return dto
}

type DeliveryRequest struct {
	ItemID string `json:"itemId"`
	Qty    int64  `json:"qty"`
}

// =============================================================================
// ITEMS
// =============================================================================

type ItemDTO struct {
	ID        string `json:"id"`
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	UnitPrice string `json:"unitPrice"`
}

func toItemDTO(it catalog.Item) ItemDTO {
	return ItemDTO{
		ID:        string(it.ID),
		SKU:       it.SKU,
		Name:      it.Name,
		Unit:      it.Unit,
		UnitPrice: it.UnitPrice.String(),
	}
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse distinguishes "fix your input" (validation) from
// "try again later" (persistence) so the console can message accordingly.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"` // validation | conflict | not_found | persistence | internal
}
