package web

import (
	"net/http"

	"salon-billing/internal/app"
	"salon-billing/internal/core"
)

func actor(r *http.Request) core.Actor {
	a, _ := actorFromContext(r.Context())
	return a
}

// apiCreateBill handles POST /api/bills.
func (h *Handler) apiCreateBill(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.CreateBill(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

// apiListBills handles GET /api/bills.
func (h *Handler) apiListBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := app.ListBillsRequest{
		Status:    q.Get("status"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Search:    q.Get("search"),
	}
	var ok bool
	if req.BranchID, ok = queryInt(w, r, "branch_id"); !ok {
		return
	}
	if req.CustomerID, ok = queryInt(w, r, "customer_id"); !ok {
		return
	}
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	if page != nil {
		req.Page = *page
	}
	if limit != nil {
		req.Limit = *limit
	}

	result, err := h.svc.ListBills(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// apiGetBill handles GET /api/bills/{id}.
func (h *Handler) apiGetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	bill, err := h.svc.GetBill(r.Context(), actor(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// apiUpdateBill handles PATCH /api/bills/{id}.
func (h *Handler) apiUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req app.UpdateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	bill, err := h.svc.UpdateBill(r.Context(), actor(r), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// apiCancelBill handles DELETE /api/bills/{id}. The bill is kept and marked cancelled.
func (h *Handler) apiCancelBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.CancelBill(r.Context(), actor(r), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) apiCustomerStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.svc.GetCustomerStatistics(r.Context(), actor(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
