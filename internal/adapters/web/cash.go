package web

import (
	"net/http"

	"salon-billing/internal/app"
)

// apiCashSummary handles GET /api/cash/summary?branch_id=&date=. A branch-bound
// caller may omit branch_id.
func (h *Handler) apiCashSummary(w http.ResponseWriter, r *http.Request) {
	branchID, ok := queryInt(w, r, "branch_id")
	if !ok {
		return
	}
	a := actor(r)
	if branchID == nil {
		branchID = a.BranchID
	}
	if branchID == nil {
		writeError(w, r, "branch_id is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetDailyCashSummary(r.Context(), a, *branchID, r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// apiReconcileCash handles POST /api/cash/reconcile.
func (h *Handler) apiReconcileCash(w http.ResponseWriter, r *http.Request) {
	var req app.CashCountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordCashCount(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) apiCashSource(w http.ResponseWriter, r *http.Request) {
	var req app.CashSourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordCashSource(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) apiBankDeposit(w http.ResponseWriter, r *http.Request) {
	var req app.BankDepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordBankDeposit(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) apiCashExpense(w http.ResponseWriter, r *http.Request) {
	var req app.CashExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.RecordCashExpense(r.Context(), actor(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
