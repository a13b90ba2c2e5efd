package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"jadwal-backend/internal/domain"
	"jadwal-backend/internal/service"

	"go.uber.org/zap"
)

// LatenessHandler exposes lateness computation and reporting.
type LatenessHandler struct {
	lateness *service.LatenessService
	logger   *zap.Logger
}

func NewLatenessHandler(lateness *service.LatenessService, logger *zap.Logger) *LatenessHandler {
	return &LatenessHandler{lateness: lateness, logger: logger}
}

type calculateRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (h *LatenessHandler) Calculate(w http.ResponseWriter, req *http.Request) {
	var body calculateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}
	if body.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employee_id is required"))
		return
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("date must be YYYY-MM-DD"))
		return
	}

	rec, err := h.lateness.Calculate(req.Context(), body.EmployeeID, body.Date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSchedule):
			writeJSON(w, http.StatusNotFound, Fail(err.Error()))
		case errors.Is(err, domain.ErrInvalidShift):
			writeJSON(w, http.StatusUnprocessableEntity, Fail(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusOK, Ok(rec))
}

type calculateRangeRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (h *LatenessHandler) CalculateRange(w http.ResponseWriter, req *http.Request) {
	var body calculateRangeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed request body"))
		return
	}
	if body.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("employee_id is required"))
		return
	}

	records, err := h.lateness.CalculateRange(req.Context(), body.EmployeeID, body.StartDate, body.EndDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidShift) {
			writeJSON(w, http.StatusUnprocessableEntity, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"records": records,
		"summary": service.Summarize(records),
	}))
}

// Report returns stored lateness records for a period plus their summary.
func (h *LatenessHandler) Report(w http.ResponseWriter, req *http.Request, employeeID string) {
	q := req.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if _, err := time.Parse("2006-01-02", start); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("start must be YYYY-MM-DD"))
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("end must be YYYY-MM-DD"))
		return
	}

	records, summary, err := h.lateness.Report(req.Context(), employeeID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"records": records,
		"summary": summary,
	}))
}
