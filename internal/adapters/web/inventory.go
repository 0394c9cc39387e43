package web

import (
	"net/http"

	"salon-billing/internal/app"
)

// ── Stock ─────────────────────────────────────────────────────────────────────

func (h *Handler) apiStockLevels(w http.ResponseWriter, r *http.Request) {
	locationID, ok := queryInt(w, r, "location_id")
	if !ok {
		return
	}
	result, err := h.svc.GetStockLevels(r.Context(), actor(r), locationID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiInventoryTransactions(w http.ResponseWriter, r *http.Request) {
	var q app.TransactionQuery
	var ok bool
	if q.ProductID, ok = queryInt(w, r, "product_id"); !ok {
		return
	}
	if q.LocationID, ok = queryInt(w, r, "location_id"); !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	if limit != nil {
		q.Limit = *limit
	}
	result, err := h.svc.ListInventoryTransactions(r.Context(), actor(r), q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// apiAdjustStock handles POST /api/inventory/adjustments.
func (h *Handler) apiAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req app.StockAdjustmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AdjustStock(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ── Transfers ─────────────────────────────────────────────────────────────────

func (h *Handler) apiCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req app.CreateTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateStockTransfer(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) apiListTransfers(w http.ResponseWriter, r *http.Request) {
	q := app.TransferQuery{Status: r.URL.Query().Get("status")}
	var ok bool
	if q.LocationID, ok = queryInt(w, r, "location_id"); !ok {
		return
	}
	result, err := h.svc.ListStockTransfers(r.Context(), actor(r), q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiGetTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.GetStockTransfer(r.Context(), actor(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiApproveTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.ApproveStockTransfer(r.Context(), actor(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiCancelTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.CancelStockTransfer(r.Context(), actor(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
