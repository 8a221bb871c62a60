// Package store provides matrix.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tripboard/matrix"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	rows   map[matrix.RowID]matrix.Row
	nextID matrix.RowID
}

func NewMemory() *Memory {
	return &Memory{
		rows:   make(map[matrix.RowID]matrix.Row),
		nextID: 1,
	}
}

func (m *Memory) FindActiveByKey(_ context.Context, origin, destination, client, unit string) (*matrix.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var match *matrix.Row
	for _, row := range m.rows {
		if !row.Active || !row.Complete {
			continue
		}
		if row.Origin != origin || row.Destination != destination ||
			row.Client != client || row.Unit != unit {
			continue
		}
		// Lowest id wins so lookups are deterministic.
		if match == nil || row.ID < match.ID {
			r := row
			match = &r
		}
	}
	return match, nil
}

func (m *Memory) Insert(_ context.Context, row matrix.Row) (matrix.RowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row.ID = m.nextID
	row.CreatedAt = time.Now().UTC()
	m.nextID++
	m.rows[row.ID] = row
	return row.ID, nil
}

func (m *Memory) Get(_ context.Context, id matrix.RowID) (*matrix.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *Memory) SetRate(_ context.Context, id matrix.RowID, rate *decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok {
		return nil
	}
	row.Rate = rate
	m.rows[id] = row
	return nil
}

func (m *Memory) Deactivate(_ context.Context, id matrix.RowID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[id]
	if !ok || !row.Active {
		return false, nil
	}
	row.Active = false
	m.rows[id] = row
	return true, nil
}

func (m *Memory) ListSelectable(_ context.Context) ([]matrix.Row, error) {
	return m.list(func(r matrix.Row) bool { return r.Active && r.Complete })
}

func (m *Memory) ListActive(_ context.Context) ([]matrix.Row, error) {
	return m.list(func(r matrix.Row) bool { return r.Active })
}

func (m *Memory) list(keep func(matrix.Row) bool) ([]matrix.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []matrix.Row
	for _, row := range m.rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		if a.Destination != b.Destination {
			return a.Destination < b.Destination
		}
		if a.Client != b.Client {
			return a.Client < b.Client
		}
		return a.Unit < b.Unit
	})
	return rows, nil
}
