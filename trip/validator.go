/*
validator.go - Trip submission gate

PURPOSE:
  Validates a submission against the matrix row it references and persists
  the trip snapshot. The active+complete check happens server-side at the
  instant of submission regardless of what the client displayed, closing
  the race where a row is deactivated between page render and submit.
*/
package trip

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/tripboard/matrix"
)

// reportLimit caps the all-trips report, matching the listing surface.
const reportLimit = 500

// Store is the persistence contract for trips.
type Store interface {
	// FindSelectable returns the matrix row only if it is active and
	// complete right now; nil otherwise (including when the id is unknown).
	FindSelectable(ctx context.Context, id matrix.RowID) (*matrix.Row, error)

	// InsertTrip persists a trip and returns its id.
	InsertTrip(ctx context.Context, t Trip) (TripID, error)

	// ListAll returns the most recent trips ordered by trip date then id,
	// newest first.
	ListAll(ctx context.Context, limit int) ([]Trip, error)
}

// Validator persists trips referencing selectable matrix rows.
type Validator struct {
	store Store
}

// NewValidator creates a validator over the given store.
func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// Submission is the input to SubmitTrip. Date and BillNumber are opaque
// values; the presentation boundary enforces non-blank.
type Submission struct {
	MatrixRowID matrix.RowID
	Date        string
	Weight      decimal.Decimal
	BillNumber  string
	UserID      string
}

// SubmitTrip re-checks the referenced row, copies its origin/destination
// verbatim into a new trip, and persists it. Weight must be non-negative.
func (v *Validator) SubmitTrip(ctx context.Context, sub Submission) (TripID, error) {
	if sub.Weight.IsNegative() {
		return 0, ErrNegativeWeight
	}

	row, err := v.store.FindSelectable(ctx, sub.MatrixRowID)
	if err != nil {
		return 0, fmt.Errorf("failed to check client list selection: %w", err)
	}
	if row == nil {
		return 0, &InvalidSelectionError{RowID: int64(sub.MatrixRowID)}
	}

	id, err := v.store.InsertTrip(ctx, Trip{
		UserID:      sub.UserID,
		Date:        sub.Date,
		Origin:      row.Origin,
		Destination: row.Destination,
		Weight:      sub.Weight,
		BillNumber:  sub.BillNumber,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert trip: %w", err)
	}
	return id, nil
}

// ListAll returns the latest trips for the report view.
func (v *Validator) ListAll(ctx context.Context) ([]Trip, error) {
	return v.store.ListAll(ctx, reportLimit)
}
