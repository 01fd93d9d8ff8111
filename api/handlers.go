/*
handlers.go - HTTP API handlers for the clinic planning dashboard

PURPOSE:
  Exposes the expense ledger and the projection engine via REST. Handles
  HTTP request/response and JSON serialization, and delegates to the
  store and the forecast package.

ENDPOINTS:
  Expenses (ledger CRUD, the dashboard's editable table):
    GET    /api/expenses          List all expenses
    POST   /api/expenses          Add expense (id = max+1)
    PUT    /api/expenses/{id}     Partial update
    DELETE /api/expenses/{id}     Remove expense

  Projection:
    POST   /api/projection        Run the 60-month projection
    GET    /api/defaults          The server's default assumptions

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid body, parameter invariant violations
  - 404: Unknown expense id
  - 500: Store failures, ledger load failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/config"
	"github.com/clinsim/planning-engine/forecast"
	"github.com/clinsim/planning-engine/ledger"
	"github.com/clinsim/planning-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Engine   *forecast.Engine
	Defaults config.Assumptions
}

// NewHandler creates a handler over the given store, using the
// configured default assumptions for parameterless projection requests.
func NewHandler(store *sqlite.Store, defaults config.Assumptions) *Handler {
	return &Handler{
		Store:    store,
		Engine:   forecast.New(store),
		Defaults: defaults,
	}
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the full ledger, ordered by id.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Store.ListExpenses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTOs(expenses))
}

// CreateExpense adds a ledger line.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative", nil)
		return
	}

	var duration *int
	if req.DurationMonths != nil {
		duration = ledger.DurationFromFloat(*req.DurationMonths)
	}

	e, err := h.Store.CreateExpense(r.Context(), req.Name, decimal.NewFromFloat(req.Amount), req.StartMonth, duration)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(e))
}

// UpdateExpense applies a partial update to one ledger line.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense id", err)
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount != nil && *req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative", nil)
		return
	}

	upd := sqlite.ExpenseUpdate{
		Name:          req.Name,
		StartMonth:    req.StartMonth,
		ClearDuration: req.ClearDuration,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		upd.Amount = &amount
	}
	if req.DurationMonths != nil {
		dur := ledger.DurationFromFloat(*req.DurationMonths)
		if dur == nil {
			// A malformed duration means "infinite", not an error.
			upd.ClearDuration = true
		} else {
			upd.Duration = dur
		}
	}

	if err := h.Store.UpdateExpense(r.Context(), id, upd); err != nil {
		if errors.Is(err, sqlite.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "Expense not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update expense", err)
		return
	}

	e, err := h.Store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back expense", err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseDTO(e))
}

// DeleteExpense removes one ledger line.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense id", err)
		return
	}

	if err := h.Store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrExpenseNotFound) {
			writeError(w, http.StatusNotFound, "Expense not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetDefaults returns the server's default assumptions so the frontend
// can seed its controls.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, assumptionsToDTO(h.Defaults))
}

// RunProjection runs the projection under the request's parameters (or
// the configured defaults) and returns the full series, headline
// metrics, break-even analysis, and salary schedule.
func (h *Handler) RunProjection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	params := h.Defaults.Parameters()
	if req.Parameters != nil {
		params = req.Parameters.toParameters()
	}

	target := decimal.NewFromFloat(h.Defaults.BreakevenTarget)
	if req.BreakevenTarget != nil {
		target = decimal.NewFromFloat(*req.BreakevenTarget)
	}

	proj, err := h.Engine.Run(r.Context(), params)
	if err != nil {
		if forecast.IsClientError(err) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Projection failed", err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionResponse(proj, target))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Warn(message, "error", err, "status", status)
	}
	writeJSON(w, status, ErrorResponse{Error: message})
}
