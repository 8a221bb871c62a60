/*
handlers.go - Operation handlers for the trip board

PURPOSE:
  Exposes the client-list lifecycle and trip submission over HTTP. Handles
  role gating, anti-forgery verification, form decoding, and the
  success/failure envelope; all business rules live in matrix.Engine and
  trip.Validator.

ENDPOINTS:
  Client list (logistic manager, administrator):
    POST   /api/matrix              Create-or-reuse a row
    POST   /api/matrix/{id}/rate    Overwrite the rate
    POST   /api/matrix/{id}/delete  Soft-delete the row
    GET    /api/matrix              Active rows (editing grid)

  Selector (driver, logistic manager, administrator):
    GET    /api/matrix/selectable   Active + complete rows

  Trips:
    POST   /api/trips               Submit a trip (driver and up)
    GET    /api/trips               All-trips report (manager and up)

  Misc:
    GET    /api/ping                Liveness + authenticated subject

ERROR HANDLING:
  Domain errors map to envelope codes:
    authorization      403  role insufficient or bad anti-forgery token
    validation         400  missing/malformed field (message names it)
    not_found          404  target row id does not exist
    invalid_selection  400  trip references a non-selectable row
    store              500  persistence failure (diagnostic logged, not
                            exposed)

SEE ALSO:
  - dto.go: Envelope and response shapes
  - pages.go: Server-rendered surfaces calling these operations
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/tripboard/auth"
	"github.com/warp/tripboard/matrix"
	"github.com/warp/tripboard/trip"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Matrix *matrix.Engine
	Trips  *trip.Validator
	Auth   *auth.Service
}

// NewHandler creates a new handler over the domain services.
func NewHandler(engine *matrix.Engine, trips *trip.Validator, authSvc *auth.Service) *Handler {
	return &Handler{
		Matrix: engine,
		Trips:  trips,
		Auth:   authSvc,
	}
}

// =============================================================================
// CLIENT LIST HANDLERS
// =============================================================================

// CreateMatrixRow handles create-or-reuse of a client-list row.
func (h *Handler) CreateMatrixRow(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.require(w, r, auth.PermEditClientList)
	if !ok {
		return
	}
	if !h.requireNonce(w, r, principal, auth.FamilyClientList) {
		return
	}

	row, err := h.Matrix.CreateOrReuse(r.Context(),
		r.PostFormValue("origin"),
		r.PostFormValue("destination"),
		r.PostFormValue("client_name"),
		r.PostFormValue("unit_name"),
		r.PostFormValue("rate"),
	)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, toRowDTO(*row))
}

// UpdateMatrixRate overwrites a row's rate. Blank input clears it.
func (h *Handler) UpdateMatrixRate(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.require(w, r, auth.PermEditClientList)
	if !ok {
		return
	}
	if !h.requireNonce(w, r, principal, auth.FamilyClientList) {
		return
	}

	id, ok := rowIDParam(w, r)
	if !ok {
		return
	}

	rate, err := h.Matrix.UpdateRate(r.Context(), id, r.PostFormValue("rate"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"rate": rate})
}

// DeleteMatrixRow soft-deletes a row. Trips that copied its values are
// untouched.
func (h *Handler) DeleteMatrixRow(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.require(w, r, auth.PermEditClientList)
	if !ok {
		return
	}
	if !h.requireNonce(w, r, principal, auth.FamilyClientList) {
		return
	}

	id, ok := rowIDParam(w, r)
	if !ok {
		return
	}

	deleted, err := h.Matrix.SoftDelete(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]int64{"id": int64(deleted)})
}

// ListActiveRows returns the editing grid's rows.
func (h *Handler) ListActiveRows(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, auth.PermEditClientList); !ok {
		return
	}

	rows, err := h.Matrix.ListActive(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toRowDTOs(rows))
}

// ListSelectableRows returns the rows the trip form may offer.
func (h *Handler) ListSelectableRows(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, auth.PermViewSelector); !ok {
		return
	}

	rows, err := h.Matrix.ListSelectable(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toRowDTOs(rows))
}

// =============================================================================
// TRIP HANDLERS
// =============================================================================

// SubmitTrip records a trip against a selectable client-list row.
func (h *Handler) SubmitTrip(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.require(w, r, auth.PermSubmitTrip)
	if !ok {
		return
	}
	if !h.requireNonce(w, r, principal, auth.FamilyTrip) {
		return
	}

	masterID, err := strconv.ParseInt(r.PostFormValue("master_id"), 10, 64)
	if err != nil || masterID <= 0 {
		writeFailure(w, http.StatusBadRequest, "validation",
			"Please select a client list row before submitting")
		return
	}

	tripDate := strings.TrimSpace(r.PostFormValue("trip_date"))
	if tripDate == "" {
		writeFailure(w, http.StatusBadRequest, "validation", "trip date is required")
		return
	}

	billNumber := strings.TrimSpace(r.PostFormValue("bill_number"))
	if billNumber == "" {
		writeFailure(w, http.StatusBadRequest, "validation", "bill number is required")
		return
	}

	weight, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("weight")))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", "weight must be a decimal number")
		return
	}

	id, err := h.Trips.SubmitTrip(r.Context(), trip.Submission{
		MatrixRowID: matrix.RowID(masterID),
		Date:        tripDate,
		Weight:      weight,
		BillNumber:  billNumber,
		UserID:      principal.Subject,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]int64{"id": int64(id)})
}

// ListTrips returns the all-trips report.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, auth.PermViewTripReport); !ok {
		return
	}

	trips, err := h.Trips.ListAll(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toTripDTOs(trips))
}

// Ping answers with the authenticated subject, for connectivity checks.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	writeSuccess(w, http.StatusOK, map[string]any{
		"pong": true,
		"user": principal.Subject,
	})
}

// =============================================================================
// GATES AND RESPONSE HELPERS
// =============================================================================

// require gates the request on a permission. Failures never reveal whether
// the target data exists.
func (h *Handler) require(w http.ResponseWriter, r *http.Request, perm auth.Permission) (auth.Principal, bool) {
	principal := principalFrom(r)
	if !principal.Can(perm) {
		writeFailure(w, http.StatusForbidden, "authorization", "Access denied")
		return principal, false
	}
	return principal, true
}

// requireNonce verifies the anti-forgery token for the form family.
// A bad token is an authorization rejection, not a validation error.
func (h *Handler) requireNonce(w http.ResponseWriter, r *http.Request, p auth.Principal, family string) bool {
	if !h.Auth.VerifyNonce(p, family, r.PostFormValue("nonce")) {
		writeFailure(w, http.StatusForbidden, "authorization", "Security check failed")
		return false
	}
	return true
}

func rowIDParam(w http.ResponseWriter, r *http.Request) (matrix.RowID, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeFailure(w, http.StatusBadRequest, "validation", "Invalid row id")
		return 0, false
	}
	return matrix.RowID(id), true
}

// respondError converts a domain error into the failure envelope.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matrix.ErrValidation):
		writeFailure(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, matrix.ErrRowNotFound):
		writeFailure(w, http.StatusNotFound, "not_found", "Row not found")
	case errors.Is(err, trip.ErrInvalidSelection):
		writeFailure(w, http.StatusBadRequest, "invalid_selection",
			"Invalid or inactive client list selection")
	case errors.Is(err, trip.ErrNegativeWeight):
		writeFailure(w, http.StatusBadRequest, "validation", err.Error())
	default:
		// Persistence failure: log the diagnostic, never expose it.
		log.Printf("store error: %v", err)
		writeFailure(w, http.StatusInternalServerError, "store",
			"A storage error occurred; please try again")
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{
		Success: false,
		Error:   &errorBody{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
