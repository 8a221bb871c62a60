/*
engine.go - Matrix row lifecycle operations

PURPOSE:
  The Engine is a stateless service over a Store. Every operation re-reads
  current state from the store; nothing is cached in memory, because the
  host may run many processes and only store-level reads/writes coordinate
  them.

OPERATIONS:
  CreateOrReuse   Insert a complete row, or return the existing active match
  UpdateRate      Overwrite the rate (last writer wins)
  SoftDelete      Deactivate a row, never remove it
  ListSelectable  Active + complete rows for the trip selector
  ListActive      All active rows for the editing grid

CONCURRENCY:
  CreateOrReuse is read-then-insert with no uniqueness constraint. Two
  concurrent calls with the same key tuple and no existing match can both
  insert; both resulting rows are independently valid and the UI always
  re-reads, so the race is tolerated rather than serialized.
*/
package matrix

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Store is the persistence contract the engine operates through.
// Implementations must not cache row state between calls.
type Store interface {
	// FindActiveByKey returns the first active+complete row matching the
	// exact trimmed 4-tuple, or nil when no match exists.
	FindActiveByKey(ctx context.Context, origin, destination, client, unit string) (*Row, error)

	// Insert persists a new row and returns its id.
	Insert(ctx context.Context, row Row) (RowID, error)

	// Get returns the row regardless of active state, or nil when the id
	// does not exist.
	Get(ctx context.Context, id RowID) (*Row, error)

	// SetRate overwrites the rate; nil clears it.
	SetRate(ctx context.Context, id RowID, rate *decimal.Decimal) error

	// Deactivate sets active=false and reports whether a row was changed.
	Deactivate(ctx context.Context, id RowID) (bool, error)

	// ListSelectable returns active+complete rows ordered by
	// (origin, destination, client, unit) ascending, case-sensitive.
	ListSelectable(ctx context.Context) ([]Row, error)

	// ListActive returns all active rows in the same order.
	ListActive(ctx context.Context) ([]Row, error)
}

// Engine enforces the row lifecycle rules on top of a Store.
type Engine struct {
	store Store
}

// NewEngine creates an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// CreateOrReuse inserts a new row from the four key fields and optional
// rate text, unless an active+complete row with the identical trimmed
// tuple already exists - in which case that row is returned unchanged and
// the supplied rate is ignored. Identical resubmission is therefore
// idempotent.
func (e *Engine) CreateOrReuse(ctx context.Context, origin, destination, client, unit, rateText string) (*Row, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	client = strings.TrimSpace(client)
	unit = strings.TrimSpace(unit)

	for i, v := range []string{origin, destination, client, unit} {
		if v == "" {
			field := keyFields[i]
			return nil, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s is required", field),
			}
		}
	}

	rate, err := ParseRate(rateText)
	if err != nil {
		return nil, err
	}

	existing, err := e.store.FindActiveByKey(ctx, origin, destination, client, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to look up matrix row: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	// Known race: a concurrent identical create can slip in here and both
	// inserts succeed. Accepted - see package docs.
	id, err := e.store.Insert(ctx, Row{
		Origin:      origin,
		Destination: destination,
		Client:      client,
		Unit:        unit,
		Rate:        rate,
		Complete:    IsComplete(origin, destination, client, unit),
		Active:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert matrix row: %w", err)
	}

	created, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back matrix row: %w", err)
	}
	if created == nil {
		return nil, &NotFoundError{ID: id}
	}
	return created, nil
}

// UpdateRate overwrites the row's rate from text input. Blank text clears
// the rate. The row may be inactive; rate edits are allowed after soft
// delete. Returns the stored rate formatted at two places ("" if cleared).
func (e *Engine) UpdateRate(ctx context.Context, id RowID, rateText string) (string, error) {
	rate, err := ParseRate(rateText)
	if err != nil {
		return "", err
	}

	row, err := e.store.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to read matrix row: %w", err)
	}
	if row == nil {
		return "", &NotFoundError{ID: id}
	}

	if err := e.store.SetRate(ctx, id, rate); err != nil {
		return "", fmt.Errorf("failed to update rate: %w", err)
	}
	return FormatRate(rate), nil
}

// SoftDelete deactivates the row. Deleting an already-inactive row is a
// no-op success; a row that never existed is an error.
func (e *Engine) SoftDelete(ctx context.Context, id RowID) (RowID, error) {
	changed, err := e.store.Deactivate(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate matrix row: %w", err)
	}
	if !changed {
		row, err := e.store.Get(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to read matrix row: %w", err)
		}
		if row == nil {
			return 0, &NotFoundError{ID: id}
		}
	}
	return id, nil
}

// ListSelectable returns the rows the trip submission selector may offer:
// active and complete only.
func (e *Engine) ListSelectable(ctx context.Context) ([]Row, error) {
	return e.store.ListSelectable(ctx)
}

// ListActive returns all active rows for the editing grid.
func (e *Engine) ListActive(ctx context.Context) ([]Row, error) {
	return e.store.ListActive(ctx)
}
