// Package store provides an in-memory ledger.Store for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fieldline/stock-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	movements map[key][]ledger.StockMovement
}

type key struct {
	ActorID ledger.ActorID
	ItemID  ledger.ItemID
}

func NewMemory() *Memory {
	return &Memory{movements: make(map[key][]ledger.StockMovement)}
}

// Append adds a single movement. Append-only; there is no update or delete.
func (m *Memory) Append(_ context.Context, mv ledger.StockMovement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{ActorID: mv.ActorID, ItemID: mv.ItemID}
	mvs := m.movements[k]

	// Keep slices sorted by CreatedAt so range reads return chronological order.
	i := sort.Search(len(mvs), func(i int) bool {
		return mvs[i].CreatedAt.After(mv.CreatedAt)
	})
	mvs = append(mvs, ledger.StockMovement{})
	copy(mvs[i+1:], mvs[i:])
	mvs[i] = mv
	m.movements[k] = mvs
	return nil
}

func (m *Memory) LoadRange(_ context.Context, actorID ledger.ActorID, itemID ledger.ItemID, from, to time.Time) ([]ledger.StockMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := key{ActorID: actorID, ItemID: itemID}
	var result []ledger.StockMovement
	for _, mv := range m.movements[k] {
		if inRange(mv.CreatedAt, from, to) {
			result = append(result, mv)
		}
	}
	return result, nil
}

func (m *Memory) LoadByActor(_ context.Context, actorID ledger.ActorID, from, to time.Time) ([]ledger.StockMovement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ledger.StockMovement
	for k, mvs := range m.movements {
		if k.ActorID != actorID {
			continue
		}
		for _, mv := range mvs {
			if inRange(mv.CreatedAt, from, to) {
				result = append(result, mv)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// inRange is inclusive on both bounds, matching ledger.Window.
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
