package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jadwal-backend/internal/domain"
	"jadwal-backend/internal/repository"
	"jadwal-backend/internal/service"

	"go.uber.org/zap"
)

// AttendanceHandler exposes the ingestion pipeline: trigger, job polling,
// image migration and raw record lookup.
type AttendanceHandler struct {
	jobs       *service.JobManager
	processor  *service.IngestProcessor
	schedules  repository.SchedulesRepo
	attendance repository.AttendanceRepo
	logger     *zap.Logger
}

func NewAttendanceHandler(
	jobs *service.JobManager,
	processor *service.IngestProcessor,
	schedules repository.SchedulesRepo,
	attendance repository.AttendanceRepo,
	logger *zap.Logger,
) *AttendanceHandler {
	return &AttendanceHandler{
		jobs:       jobs,
		processor:  processor,
		schedules:  schedules,
		attendance: attendance,
		logger:     logger,
	}
}

type fetchAllSyncResult struct {
	Processed int    `json:"processed"`
	Success   int    `json:"success"`
	Failed    int    `json:"failed"`
	Date      string `json:"date"`
}

// FetchAll starts an ingestion run over every scheduled employee. Default is
// asynchronous: 202 with a job id to poll. ?async=false runs inline and
// returns the legacy 200 summary. 409 when a run is already active.
func (h *AttendanceHandler) FetchAll(w http.ResponseWriter, req *http.Request) {
	triggeredBy := domain.TriggerManual
	if req.URL.Query().Get("trigger") == string(domain.TriggerScheduled) {
		triggeredBy = domain.TriggerScheduled
	}

	if req.URL.Query().Get("async") == "false" {
		h.fetchAllSync(w, req, triggeredBy)
		return
	}

	job, err := h.jobs.CreateExclusive(domain.JobTypeAttendanceFetch, triggeredBy)
	if err != nil {
		if errors.Is(err, service.ErrJobAlreadyRunning) {
			writeJSON(w, http.StatusConflict, Fail("an attendance fetch is already in progress"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	go h.runJob(job.ID)

	writeJSON(w, http.StatusAccepted, Ok(map[string]string{"jobId": job.ID}))
}

// runJob drives one ingestion run to a terminal job state. Detached from the
// request: the trigger's HTTP context must not cancel the run.
func (h *AttendanceHandler) runJob(jobID string) {
	ctx := context.Background()

	if err := h.jobs.Start(jobID); err != nil {
		h.logger.Error("could not start job", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	ids, err := h.schedules.ListEmployeeIDs(ctx)
	if err != nil {
		_ = h.jobs.Fail(jobID, "listing scheduled employees: "+err.Error())
		return
	}

	result := h.processor.Run(ctx, ids, func(p domain.JobProgress) {
		if err := h.jobs.UpdateProgress(jobID, p); err != nil {
			h.logger.Warn("progress update rejected", zap.String("job_id", jobID), zap.Error(err))
		}
	})

	_ = h.jobs.Complete(jobID, result)
}

func (h *AttendanceHandler) fetchAllSync(w http.ResponseWriter, req *http.Request, triggeredBy domain.TriggerSource) {
	job, err := h.jobs.CreateExclusive(domain.JobTypeAttendanceFetch, triggeredBy)
	if err != nil {
		if errors.Is(err, service.ErrJobAlreadyRunning) {
			writeJSON(w, http.StatusConflict, Fail("an attendance fetch is already in progress"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	if err := h.jobs.Start(job.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	ids, err := h.schedules.ListEmployeeIDs(req.Context())
	if err != nil {
		_ = h.jobs.Fail(job.ID, err.Error())
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	result := h.processor.Run(req.Context(), ids, nil)
	_ = h.jobs.Complete(job.ID, result)

	writeJSON(w, http.StatusOK, Ok(fetchAllSyncResult{
		Processed: result.Total,
		Success:   result.Succeeded,
		Failed:    result.Failed,
		Date:      time.Now().Format("2006-01-02"),
	}))
}

type jobStatusResult struct {
	Status   string              `json:"status"`
	Progress *domain.JobProgress `json:"progress,omitempty"`
	Result   *domain.JobResult   `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// JobStatus reports one job. An ingestion failure shows up as status=failed
// with the error string, not as an HTTP error; 404 is reserved for
// unknown/expired ids.
func (h *AttendanceHandler) JobStatus(w http.ResponseWriter, req *http.Request, jobID string) {
	job, ok := h.jobs.Get(jobID)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("job not found"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(jobStatusResult{
		Status:   string(job.Status),
		Progress: job.Progress,
		Result:   job.Result,
		Error:    job.Error,
	}))
}

// Jobs lists retained jobs, newest first.
func (h *AttendanceHandler) Jobs(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.jobs.List()))
}

// MigrateImages re-archives photo URLs on stored records.
func (h *AttendanceHandler) MigrateImages(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	skip, _ := strconv.Atoi(q.Get("skip"))
	force := q.Get("forceUpdate") == "true"

	result, err := h.processor.MigrateImages(req.Context(), limit, skip, force)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}

// GetAttendance returns the stored raw record of one employee-day.
func (h *AttendanceHandler) GetAttendance(w http.ResponseWriter, req *http.Request, employeeID string) {
	date := req.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("date must be YYYY-MM-DD"))
		return
	}

	rec, err := h.attendance.Get(req.Context(), employeeID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("no attendance record"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(rec))
}
