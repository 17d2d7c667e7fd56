/*
handlers.go - HTTP API handlers for the stock ledger engine

PURPOSE:
  Exposes the ledger, workflow, ordering and fulfillment logic to the web
  admin console and the field apps' backend. Handles HTTP parsing, JSON
  serialization, and delegates everything else to domain logic.

ENDPOINTS:
  Movements:
    POST   /api/movements                     Append a raw movement
    GET    /api/actors/{id}/movements         Movement history (audit)

  Balances:
    GET    /api/actors/{id}/balance?item=     Single projected balance
    GET    /api/actors/{id}/balances          All items, one pass

  Workflow:
    POST   /api/workflow/issues               warehouse -> rep
    POST   /api/workflow/transfers            rep -> shop
    POST   /api/workflow/returns              shop/customer -> rep
    POST   /api/workflow/hq-returns           rep -> warehouse

  Fulfillment:
    GET    /api/reps/{id}/fulfillment?shops=  Match pending demand

  Requests:
    POST   /api/requests                      Open a shop order
    GET    /api/requests/{id}
    POST   /api/requests/{id}/deliveries
    POST   /api/requests/{id}/cancel

  Items:
    GET    /api/items
    POST   /api/items

  Scenarios:
    GET    /api/scenarios
    POST   /api/scenarios/load

ERROR HANDLING:
  400 validation ("fix your input")  409 conflict  404 not found
  502 persistence ("try again later")  500 everything else
  The kind field in the body mirrors the split so clients don't parse
  status codes.

IDENTITY:
  Actor ids arrive as opaque path/body values resolved by the identity
  collaborator upstream; there is no session state in this layer.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fieldline/stock-engine/catalog"
	"github.com/fieldline/stock-engine/fulfillment"
	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is everything a handler needs from persistence.
// Both store/sqlite and store/postgres satisfy it.
type Backend interface {
	ledger.Store
	fulfillment.RequestStore
	catalog.Directory
	Close() error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Ledger    *ledger.TransactionLedger
	Projector *ledger.BalanceProjector
	Policy    ledger.DailyResetPolicy
	Workflow  *ledger.TransferWorkflow
	Matcher   *fulfillment.Matcher
	Orders    *fulfillment.OrderBook
	Items     catalog.Directory
	Movements ledger.Store
	Clock     ledger.Clock
	Log       zerolog.Logger
}

// NewHandler wires the engine on top of a Backend.
func NewHandler(backend Backend, clock ledger.Clock, log zerolog.Logger) *Handler {
	led := ledger.NewTransactionLedger(backend, clock)
	projector := ledger.NewBalanceProjector(backend)
	policy := ledger.DailyResetPolicy{Loc: clock.Location()}

	return &Handler{
		Ledger:    led,
		Projector: projector,
		Policy:    policy,
		Workflow:  ledger.NewTransferWorkflow(led),
		Matcher: &fulfillment.Matcher{
			Requests:  backend,
			Projector: projector,
			Policy:    policy,
			Items:     backend,
		},
		Orders:    fulfillment.NewOrderBook(backend, clock),
		Items:     backend,
		Movements: backend,
		Clock:     clock,
		Log:       log,
	}
}

// =============================================================================
// MOVEMENTS
// =============================================================================

func (h *Handler) AppendMovement(w http.ResponseWriter, r *http.Request) {
	var req AppendMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, badBody(err))
		return
	}

	m, err := h.Ledger.Append(r.Context(), ledger.StockMovementInput{
		ItemID:    ledger.ItemID(req.ItemID),
		ActorID:   ledger.ActorID(req.ActorID),
		Type:      ledger.MovementType(req.MovementType),
		Quantity:  req.Quantity,
		Reference: req.Reference,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toMovementDTO(m))
}

func (h *Handler) GetMovements(w http.ResponseWriter, r *http.Request) {
	actorID := ledger.ActorID(chi.URLParam(r, "id"))
	now := h.Clock.Now()

	from := time.Unix(0, 0).UTC()
	to := now
	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = time.Parse(time.RFC3339, s); err != nil {
			h.writeError(w, &ledger.ValidationError{Field: "from", Reason: "must be RFC3339"})
			return
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = time.Parse(time.RFC3339, s); err != nil {
			h.writeError(w, &ledger.ValidationError{Field: "to", Reason: "must be RFC3339"})
			return
		}
	}

	movements, err := h.Movements.LoadByActor(r.Context(), actorID, from, to)
	if err != nil {
		h.writeError(w, &ledger.PersistenceError{Op: "load", Err: err})
		return
	}
	dtos := make([]MovementDTO, len(movements))
	for i, m := range movements {
		dtos[i] = toMovementDTO(m)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BALANCES
// =============================================================================

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	actorID := ledger.ActorID(chi.URLParam(r, "id"))
	itemID := ledger.ItemID(r.URL.Query().Get("item"))
	if itemID == "" {
		h.writeError(w, &ledger.ValidationError{Field: "item", Reason: "is required"})
		return
	}

	window := h.windowFromQuery(r)
	balance, err := h.Projector.Project(r.Context(), actorID, itemID, window)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, BalanceDTO{
		ActorID: string(actorID),
		ItemID:  string(itemID),
		Window:  WindowDTO{Start: window.Start, End: window.End},
		Balance: balance,
		Display: ledger.ClampForDisplay(balance),
	})
}

func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	actorID := ledger.ActorID(chi.URLParam(r, "id"))
	window := h.windowFromQuery(r)

	balances, err := h.Projector.ProjectAll(r.Context(), actorID, window)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make(map[string]int64, len(balances))
	for itemID, v := range balances {
		out[string(itemID)] = v
	}
	h.writeJSON(w, http.StatusOK, BalancesDTO{
		ActorID:  string(actorID),
		Window:   WindowDTO{Start: window.Start, End: window.End},
		Balances: out,
	})
}

// windowFromQuery picks the projection window: representatives get the
// daily reset, everything else is cumulative. ?kind=representative|shop|warehouse
func (h *Handler) windowFromQuery(r *http.Request) ledger.Window {
	kind := ledger.ActorKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = ledger.ActorRepresentative
	}
	return h.Policy.WindowFor(kind, h.Clock.Now())
}

// =============================================================================
// WORKFLOW
// =============================================================================

func (h *Handler) IssueToRep(w http.ResponseWriter, r *http.Request) {
	h.workflowOp(w, r, func(req WorkflowRequest) (ledger.StockMovement, error) {
		return h.Workflow.IssueToRep(r.Context(), ledger.ItemID(req.ItemID), ledger.ActorID(req.RepID), req.Qty)
	})
}

func (h *Handler) TransferToShop(w http.ResponseWriter, r *http.Request) {
	h.workflowOp(w, r, func(req WorkflowRequest) (ledger.StockMovement, error) {
		if req.ShopID == "" {
			return ledger.StockMovement{}, &ledger.ValidationError{Field: "shopId", Reason: "is required"}
		}
		return h.Workflow.TransferToShop(r.Context(), ledger.ItemID(req.ItemID), ledger.ActorID(req.RepID), ledger.ActorID(req.ShopID), req.Qty)
	})
}

func (h *Handler) ReturnToRep(w http.ResponseWriter, r *http.Request) {
	h.workflowOp(w, r, func(req WorkflowRequest) (ledger.StockMovement, error) {
		return h.Workflow.ReturnToRep(r.Context(), ledger.ItemID(req.ItemID), ledger.ActorID(req.RepID), req.Qty)
	})
}

func (h *Handler) ReturnToWarehouse(w http.ResponseWriter, r *http.Request) {
	h.workflowOp(w, r, func(req WorkflowRequest) (ledger.StockMovement, error) {
		return h.Workflow.ReturnToWarehouse(r.Context(), ledger.ItemID(req.ItemID), ledger.ActorID(req.RepID), req.Qty)
	})
}

func (h *Handler) workflowOp(w http.ResponseWriter, r *http.Request, op func(WorkflowRequest) (ledger.StockMovement, error)) {
	var req WorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, badBody(err))
		return
	}
	m, err := op(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toMovementDTO(m))
}

// =============================================================================
// FULFILLMENT
// =============================================================================

func (h *Handler) MatchFulfillment(w http.ResponseWriter, r *http.Request) {
	repID := ledger.ActorID(chi.URLParam(r, "id"))

	var shopIDs []fulfillment.ShopID
	for _, s := range strings.Split(r.URL.Query().Get("shops"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			shopIDs = append(shopIDs, fulfillment.ShopID(s))
		}
	}
	if len(shopIDs) == 0 {
		h.writeError(w, &ledger.ValidationError{Field: "shops", Reason: "is required"})
		return
	}

	result, err := h.Matcher.Match(r.Context(), repID, shopIDs, h.Clock.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toFulfillmentDTOs(result))
}

// =============================================================================
// REQUESTS
// =============================================================================

func (h *Handler) OpenRequest(w http.ResponseWriter, r *http.Request) {
	var req OpenRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, badBody(err))
		return
	}

	lines := make([]fulfillment.Line, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = fulfillment.Line{ItemID: ledger.ItemID(l.ItemID), Qty: l.Qty}
	}

	created, err := h.Orders.Open(r.Context(), fulfillment.ShopID(req.ShopID), lines)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toRequestDTO(created, nil))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := fulfillment.RequestID(chi.URLParam(r, "id"))
	req, items, err := h.Orders.Requests.GetRequest(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toRequestDTO(req, items))
}

func (h *Handler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	id := fulfillment.RequestID(chi.URLParam(r, "id"))
	var req DeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, badBody(err))
		return
	}
	if err := h.Orders.RecordDelivery(r.Context(), id, ledger.ItemID(req.ItemID), req.Qty); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := fulfillment.RequestID(chi.URLParam(r, "id"))
	if err := h.Orders.Cancel(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ITEMS
// =============================================================================

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto ItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeError(w, badBody(err))
		return
	}
	if dto.ID == "" || dto.Name == "" {
		h.writeError(w, &ledger.ValidationError{Field: "id/name", Reason: "is required"})
		return
	}

	price := decimal.Zero
	if dto.UnitPrice != "" {
		var err error
		if price, err = decimal.NewFromString(dto.UnitPrice); err != nil {
			h.writeError(w, &ledger.ValidationError{Field: "unitPrice", Reason: "must be a decimal"})
			return
		}
	}

	item := catalog.Item{
		ID:        ledger.ItemID(dto.ID),
		SKU:       dto.SKU,
		Name:      dto.Name,
		Unit:      dto.Unit,
		UnitPrice: price,
	}
	if err := h.Items.SaveItem(r.Context(), item); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	if status >= 500 {
		h.Log.Error().Err(err).Msg("request failed")
	} else {
		h.Log.Debug().Err(err).Msg("request rejected")
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func classify(err error) (int, string) {
	switch {
	case ledger.IsValidation(err),
		errors.Is(err, fulfillment.ErrOverDelivery),
		errors.Is(err, fulfillment.ErrEmptyRequest):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, fulfillment.ErrDuplicatePendingRequest),
		errors.Is(err, fulfillment.ErrNotPending):
		return http.StatusConflict, "conflict"
	case errors.Is(err, fulfillment.ErrRequestNotFound),
		errors.Is(err, fulfillment.ErrLineNotFound),
		errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound, "not_found"
	case ledger.IsPersistence(err):
		return http.StatusBadGateway, "persistence"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func badBody(err error) error {
	return &ledger.ValidationError{Field: "body", Reason: "is not valid JSON: " + err.Error()}
}
