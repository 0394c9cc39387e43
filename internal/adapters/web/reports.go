package web

import (
	"net/http"

	"salon-billing/internal/app"
)

// reportQuery reads period, start_date, end_date, branch_id and employee_id.
func reportQuery(w http.ResponseWriter, r *http.Request) (app.ReportQuery, bool) {
	q := r.URL.Query()
	req := app.ReportQuery{
		Period:    q.Get("period"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	var ok bool
	if req.BranchID, ok = queryInt(w, r, "branch_id"); !ok {
		return req, false
	}
	if req.EmployeeID, ok = queryInt(w, r, "employee_id"); !ok {
		return req, false
	}
	return req, true
}

func (h *Handler) apiEmployeePerformance(w http.ResponseWriter, r *http.Request) {
	q, ok := reportQuery(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetEmployeePerformance(r.Context(), actor(r), q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// apiStaffPerformance handles GET /api/reports/staff/{userID}?period=.
func (h *Handler) apiStaffPerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	result, err := h.svc.GetStaffPerformance(r.Context(), actor(r), id, r.URL.Query().Get("period"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiServiceAnalytics(w http.ResponseWriter, r *http.Request) {
	q, ok := reportQuery(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetServiceAnalytics(r.Context(), actor(r), q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	q, ok := reportQuery(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetDashboard(r.Context(), actor(r), q)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
