/*
Package matrix implements the client-list (master matrix) row lifecycle.

PURPOSE:
  A matrix row is a reusable (origin, destination, client, unit, rate)
  reference tuple curated by logistic managers. Trip submission selects one
  of these rows and copies its route fields, so rows are never physically
  deleted - only deactivated.

KEY CONCEPTS IN THIS FILE (types.go):
  - Row: The persisted reference tuple
  - Completeness: Derived flag, true iff all four key text fields are
    non-empty after trimming
  - Rate parsing/formatting: Nullable two-place decimal

DESIGN PRINCIPLES:
  1. Lock-on-save: Once a row exists, origin/destination/client/unit are
     immutable. Only the rate can change.
  2. Soft delete: Deactivation keeps the row so historical trips that copied
     its values stay meaningful.
  3. Precision: Rates use decimal.Decimal, never floats.

SEE ALSO:
  - engine.go: Lifecycle operations (create-or-reuse, rate, delete, listings)
  - errors.go: Error types returned by the engine
*/
package matrix

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RowID identifies a matrix row.
type RowID int64

// Row is one client-list entry. The four key fields form a soft business
// key among active rows; Rate is nil when the row has not been priced yet.
type Row struct {
	ID          RowID
	Origin      string
	Destination string
	Client      string
	Unit        string
	Rate        *decimal.Decimal
	Complete    bool
	Active      bool
	CreatedAt   time.Time
}

// keyFields lists the required fields in validation order.
var keyFields = []string{"origin", "destination", "client", "unit"}

// IsComplete reports whether all four key fields are non-empty after
// trimming whitespace. Blank-only strings count as empty.
func IsComplete(origin, destination, client, unit string) bool {
	for _, f := range []string{origin, destination, client, unit} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// ParseRate converts rate input text into a nullable decimal. Blank text
// means "not yet priced" and yields nil without error.
func ParseRate(text string) (*decimal.Decimal, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, &ValidationError{Field: "rate", Message: "rate must be a decimal number"}
	}
	return &d, nil
}

// FormatRate renders a rate at two decimal places, or "" when unset.
func FormatRate(rate *decimal.Decimal) string {
	if rate == nil {
		return ""
	}
	return rate.StringFixed(2)
}
