/*
Package trip records driver trips against the client list.

A trip is a point-in-time snapshot: origin and destination are copied from
the selected matrix row at submission, never referenced live, so later
edits or deactivation of the row never alter past trips. Trips are
append-only - there is no update or delete path.
*/
package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripID identifies a trip record.
type TripID int64

// Trip is one driver's recorded movement.
type Trip struct {
	ID          TripID
	UserID      string
	Date        string // opaque date text from the form, e.g. 2026-08-31
	Origin      string
	Destination string
	Weight      decimal.Decimal
	BillNumber  string
	CreatedAt   time.Time
}
