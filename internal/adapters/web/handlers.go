package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"salon-billing/internal/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultBodyLimit = 1 << 20 // 1 MB

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins string
	JWTSecret      string
	BodyLimit      int64
	Logger         *zap.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	logger    *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = defaultBodyLimit
	}

	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		logger:    opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(opts.Logger))
	r.Use(Recoverer(opts.Logger))
	r.Use(CORS(opts.AllowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(opts.BodyLimit))

		r.Get("/api/auth/me", h.me)
		r.Get("/api/schemas", h.listSchemas)
		r.Get("/api/schemas/{name}", h.getSchema)

		// ── Bills ─────────────────────────────────────────────────────────────
		r.Post("/api/bills", h.apiCreateBill)
		r.Get("/api/bills", h.apiListBills)
		r.Get("/api/bills/{id}", h.apiGetBill)
		r.Patch("/api/bills/{id}", h.apiUpdateBill)
		r.Delete("/api/bills/{id}", h.apiCancelBill)
		r.Get("/api/customers/{id}/statistics", h.apiCustomerStatistics)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/inventory", h.apiStockLevels)
		r.Get("/api/inventory/transactions", h.apiInventoryTransactions)
		r.Post("/api/inventory/adjustments", h.apiAdjustStock)

		// ── Stock transfers ───────────────────────────────────────────────────
		r.Post("/api/stock-transfers", h.apiCreateTransfer)
		r.Get("/api/stock-transfers", h.apiListTransfers)
		r.Get("/api/stock-transfers/{id}", h.apiGetTransfer)
		r.Post("/api/stock-transfers/{id}/approve", h.apiApproveTransfer)
		r.Post("/api/stock-transfers/{id}/cancel", h.apiCancelTransfer)

		// ── Cash ──────────────────────────────────────────────────────────────
		r.Get("/api/cash/summary", h.apiCashSummary)
		r.Post("/api/cash/reconcile", h.apiReconcileCash)
		r.Post("/api/cash/sources", h.apiCashSource)
		r.Post("/api/cash/deposits", h.apiBankDeposit)
		r.Post("/api/cash/expenses", h.apiCashExpense)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/employee-performance", h.apiEmployeePerformance)
		r.Get("/api/reports/staff/{userID}", h.apiStaffPerformance)
		r.Get("/api/reports/services", h.apiServiceAnalytics)
		r.Get("/api/reports/dashboard", h.apiDashboard)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"schemas": app.SchemaNames()})
}

// getSchema serves the JSON Schema of a request body.
func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	b, err := app.Schema(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(b)
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID reads a positive integer URL parameter, writing 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "VALIDATION_ERROR", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, "invalid "+name, "VALIDATION_ERROR", http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}
