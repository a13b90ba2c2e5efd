package httpapi

import (
	"net/http"
	"time"

	"jadwal-backend/internal/importer"
	"jadwal-backend/internal/repository"

	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

// ScheduleHandler exposes schedule import and read.
type ScheduleHandler struct {
	schedules repository.SchedulesRepo
	logger    *zap.Logger
}

func NewScheduleHandler(schedules repository.SchedulesRepo, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, logger: logger}
}

// Upload imports a monthly schedule workbook: multipart field "file" plus
// form field "month" (YYYY-MM). Cell-level problems are reported back but do
// not abort the import.
func (h *ScheduleHandler) Upload(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("malformed multipart upload"))
		return
	}

	month := req.FormValue("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("month must be YYYY-MM"))
		return
	}

	file, _, err := req.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("missing file field"))
		return
	}
	defer file.Close()

	entries, problems, err := importer.ParseScheduleWorkbook(file, month)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Fail(err.Error()))
		return
	}

	if err := h.schedules.UpsertEntries(req.Context(), entries); err != nil {
		h.logger.Error("schedule upsert failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("could not store schedule"))
		return
	}

	h.logger.Info("schedule imported",
		zap.String("month", month),
		zap.Int("entries", len(entries)),
		zap.Int("problems", len(problems)),
	)
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"imported": len(entries),
		"problems": problems,
	}))
}

// GetMonth returns one employee's entries for a month.
func (h *ScheduleHandler) GetMonth(w http.ResponseWriter, req *http.Request, employeeID string) {
	month := req.URL.Query().Get("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("month must be YYYY-MM"))
		return
	}

	entries, err := h.schedules.ListMonth(req.Context(), employeeID, month)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(entries))
}
