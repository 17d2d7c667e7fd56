/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

INTERFACES IMPLEMENTED:
  ledger.Store:             stock movement persistence (append-only)
  fulfillment.RequestStore: shop orders and their lines
  catalog.Directory:        item lookup

APPEND-ONLY ENFORCEMENT:
  There is no UPDATE or DELETE statement against stock_movements anywhere
  in this package. Corrections happen via compensating movements. Requests
  and request_items ARE mutable (delivery progress, status) because the
  ordering workflow owns them.

TIMESTAMPS:
  Stored as UTC unix nanoseconds (INTEGER). TEXT timestamps order
  incorrectly once sub-second precision varies, and every range query in
  this schema is a timestamp comparison.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time.

USAGE:
  st, err := sqlite.New("./data/field.db")   // or ":memory:"
  defer st.Close()
  led := ledger.NewTransactionLedger(st, clock)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/fieldline/stock-engine/catalog"
	"github.com/fieldline/stock-engine/fulfillment"
	"github.com/fieldline/stock-engine/ledger"
)

// Store implements the storage interfaces over SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and migrates) a SQLite store. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	-- Stock movements (append-only ledger; legacy deployments call this
	-- table stock_transactions)
	CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		reference TEXT,
		created_at INTEGER NOT NULL
	);

	-- Hot path: per actor+item window scans for Project
	CREATE INDEX IF NOT EXISTS idx_movements_actor_item_created
		ON stock_movements(actor_id, item_id, created_at);

	-- Actor-wide window scans for ProjectAll and history views
	CREATE INDEX IF NOT EXISTS idx_movements_actor_created
		ON stock_movements(actor_id, created_at);

	-- Requests (owned by the ordering workflow)
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		shop_id TEXT NOT NULL,
		status TEXT NOT NULL,
		request_date INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_shop_status
		ON requests(shop_id, status);

	CREATE TABLE IF NOT EXISTS request_items (
		request_id TEXT NOT NULL REFERENCES requests(id),
		item_id TEXT NOT NULL,
		requested_qty INTEGER NOT NULL CHECK (requested_qty > 0),
		delivered_qty INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (request_id, item_id)
	);

	-- Item catalog
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		sku TEXT,
		name TEXT NOT NULL,
		unit TEXT,
		unit_price TEXT NOT NULL DEFAULT '0'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ledger.Store
// =============================================================================

func (s *Store) Append(ctx context.Context, m ledger.StockMovement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_movements (id, item_id, actor_id, movement_type, quantity, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), string(m.ItemID), string(m.ActorID), string(m.Type),
		m.Quantity, m.Reference, m.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (s *Store) LoadRange(ctx context.Context, actorID ledger.ActorID, itemID ledger.ItemID, from, to time.Time) ([]ledger.StockMovement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, actor_id, movement_type, quantity, reference, created_at
		FROM stock_movements
		WHERE actor_id = ? AND item_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at`,
		string(actorID), string(itemID), from.UTC().UnixNano(), to.UTC().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (s *Store) LoadByActor(ctx context.Context, actorID ledger.ActorID, from, to time.Time) ([]ledger.StockMovement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, actor_id, movement_type, quantity, reference, created_at
		FROM stock_movements
		WHERE actor_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at`,
		string(actorID), from.UTC().UnixNano(), to.UTC().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("load movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows *sql.Rows) ([]ledger.StockMovement, error) {
	var result []ledger.StockMovement
	for rows.Next() {
		var (
			m         ledger.StockMovement
			reference sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ActorID, &m.Type, &m.Quantity, &reference, &createdAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Reference = reference.String
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, m)
	}
	return result, rows.Err()
}

// =============================================================================
// fulfillment.RequestStore
// =============================================================================

func (s *Store) CreateRequest(ctx context.Context, req fulfillment.Request, items []fulfillment.RequestItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO requests (id, shop_id, status, request_date) VALUES (?, ?, ?, ?)`,
		string(req.ID), string(req.ShopID), string(req.Status), req.Date.UTC().UnixNano(),
	); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO request_items (request_id, item_id, requested_qty, delivered_qty)
			VALUES (?, ?, ?, ?)`,
			string(it.RequestID), string(it.ItemID), it.RequestedQty, it.DeliveredQty,
		); err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetRequest(ctx context.Context, id fulfillment.RequestID) (fulfillment.Request, []fulfillment.RequestItem, error) {
	var (
		req  fulfillment.Request
		date int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, shop_id, status, request_date FROM requests WHERE id = ?`,
		string(id),
	).Scan(&req.ID, &req.ShopID, &req.Status, &date)
	if err == sql.ErrNoRows {
		return fulfillment.Request{}, nil, fulfillment.ErrRequestNotFound
	}
	if err != nil {
		return fulfillment.Request{}, nil, fmt.Errorf("get request: %w", err)
	}
	req.Date = time.Unix(0, date).UTC()

	items, err := s.RequestItems(ctx, []fulfillment.RequestID{id})
	if err != nil {
		return fulfillment.Request{}, nil, err
	}
	return req, items, nil
}

func (s *Store) PendingRequests(ctx context.Context, shopIDs []fulfillment.ShopID) ([]fulfillment.Request, error) {
	if len(shopIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(shopIDs)+1)
	args = append(args, string(fulfillment.StatusPending))
	for _, id := range shopIDs {
		args = append(args, string(id))
	}

	query := fmt.Sprintf(`
		SELECT id, shop_id, status, request_date
		FROM requests
		WHERE status = ? AND shop_id IN (%s)
		ORDER BY request_date`, placeholders(len(shopIDs)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pending requests: %w", err)
	}
	defer rows.Close()

	var result []fulfillment.Request
	for rows.Next() {
		var (
			req  fulfillment.Request
			date int64
		)
		if err := rows.Scan(&req.ID, &req.ShopID, &req.Status, &date); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		req.Date = time.Unix(0, date).UTC()
		result = append(result, req)
	}
	return result, rows.Err()
}

func (s *Store) RequestItems(ctx context.Context, requestIDs []fulfillment.RequestID) ([]fulfillment.RequestItem, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	args := make([]any, len(requestIDs))
	for i, id := range requestIDs {
		args[i] = string(id)
	}

	query := fmt.Sprintf(`
		SELECT request_id, item_id, requested_qty, delivered_qty
		FROM request_items
		WHERE request_id IN (%s)
		ORDER BY request_id, item_id`, placeholders(len(requestIDs)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("request items: %w", err)
	}
	defer rows.Close()

	var result []fulfillment.RequestItem
	for rows.Next() {
		var it fulfillment.RequestItem
		if err := rows.Scan(&it.RequestID, &it.ItemID, &it.RequestedQty, &it.DeliveredQty); err != nil {
			return nil, fmt.Errorf("scan request item: %w", err)
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (s *Store) HasPendingBetween(ctx context.Context, shopID fulfillment.ShopID, from, to time.Time) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM requests
		WHERE shop_id = ? AND status = ? AND request_date >= ? AND request_date <= ?`,
		string(shopID), string(fulfillment.StatusPending),
		from.UTC().UnixNano(), to.UTC().UnixNano(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("pending check: %w", err)
	}
	return n > 0, nil
}

func (s *Store) SetDelivered(ctx context.Context, id fulfillment.RequestID, itemID ledger.ItemID, delivered int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE request_items SET delivered_qty = ? WHERE request_id = ? AND item_id = ?`,
		delivered, string(id), string(itemID),
	)
	if err != nil {
		return fmt.Errorf("set delivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fulfillment.ErrLineNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id fulfillment.RequestID, status fulfillment.RequestStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE requests SET status = ? WHERE id = ?`,
		string(status), string(id),
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fulfillment.ErrRequestNotFound
	}
	return nil
}

// =============================================================================
// catalog.Directory
// =============================================================================

func (s *Store) Item(ctx context.Context, id ledger.ItemID) (catalog.Item, error) {
	var (
		item  catalog.Item
		sku   sql.NullString
		unit  sql.NullString
		price string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sku, name, unit, unit_price FROM items WHERE id = ?`,
		string(id),
	).Scan(&item.ID, &sku, &item.Name, &unit, &price)
	if err == sql.ErrNoRows {
		return catalog.Item{}, catalog.ErrItemNotFound
	}
	if err != nil {
		return catalog.Item{}, fmt.Errorf("get item: %w", err)
	}
	item.SKU = sku.String
	item.Unit = unit.String
	item.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("parse unit price: %w", err)
	}
	return item, nil
}

func (s *Store) ListItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sku, name, unit, unit_price FROM items ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var result []catalog.Item
	for rows.Next() {
		var (
			item  catalog.Item
			sku   sql.NullString
			unit  sql.NullString
			price string
		)
		if err := rows.Scan(&item.ID, &sku, &item.Name, &unit, &price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.SKU = sku.String
		item.Unit = unit.String
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (s *Store) SaveItem(ctx context.Context, item catalog.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, sku, name, unit, unit_price) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET sku=excluded.sku, name=excluded.name,
			unit=excluded.unit, unit_price=excluded.unit_price`,
		string(item.ID), item.SKU, item.Name, item.Unit, item.UnitPrice.String(),
	)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
