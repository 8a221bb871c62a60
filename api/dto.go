/*
dto.go - Wire types for API responses

The dispatcher contract: mutating operations take form-encoded input and
return a {success, data | error} envelope. DTOs decouple the stored rows
from the wire shape; rates always render at two places, blank when unset.
*/
package api

import (
	"time"

	"github.com/warp/tripboard/matrix"
	"github.com/warp/tripboard/trip"
)

// envelope is the structured success/failure response for operations.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// errorBody carries a machine code and a human-readable message.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RowDTO represents a client-list row in API responses.
type RowDTO struct {
	ID          int64  `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Client      string `json:"client_name"`
	Unit        string `json:"unit_name"`
	Rate        string `json:"rate"`
}

func toRowDTO(row matrix.Row) RowDTO {
	return RowDTO{
		ID:          int64(row.ID),
		Origin:      row.Origin,
		Destination: row.Destination,
		Client:      row.Client,
		Unit:        row.Unit,
		Rate:        matrix.FormatRate(row.Rate),
	}
}

func toRowDTOs(rows []matrix.Row) []RowDTO {
	dtos := make([]RowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toRowDTO(row)
	}
	return dtos
}

// TripDTO represents a recorded trip in API responses.
type TripDTO struct {
	ID          int64  `json:"id"`
	UserID      string `json:"user_id"`
	Date        string `json:"trip_date"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Weight      string `json:"weight"`
	BillNumber  string `json:"bill_number"`
	CreatedAt   string `json:"created_at"`
}

func toTripDTO(t trip.Trip) TripDTO {
	return TripDTO{
		ID:          int64(t.ID),
		UserID:      t.UserID,
		Date:        t.Date,
		Origin:      t.Origin,
		Destination: t.Destination,
		Weight:      t.Weight.StringFixed(2),
		BillNumber:  t.BillNumber,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func toTripDTOs(trips []trip.Trip) []TripDTO {
	dtos := make([]TripDTO, len(trips))
	for i, t := range trips {
		dtos[i] = toTripDTO(t)
	}
	return dtos
}
