package domain

import "time"

// JobStatus is the lifecycle state of an ingestion run. Transitions are
// pending → running → {completed, failed}; terminal states never change.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobType identifies what a job does. Attendance fetch is the only type the
// pipeline runs today.
type JobType string

const JobTypeAttendanceFetch JobType = "attendance-fetch"

// TriggerSource records who started a run.
type TriggerSource string

const (
	TriggerManual    TriggerSource = "manual"
	TriggerScheduled TriggerSource = "scheduled"
)

// JobProgress is reported while a job is running.
type JobProgress struct {
	Current      int `json:"current"`
	Total        int `json:"total"`
	Batch        int `json:"batch,omitempty"`
	TotalBatches int `json:"total_batches,omitempty"`
}

// JobResult summarizes a finished run.
type JobResult struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Job is one ingestion run. Owned and mutated exclusively by the job
// manager; process-local, lost on restart.
type Job struct {
	ID          string        `json:"id"`
	Type        JobType       `json:"type"`
	Status      JobStatus     `json:"status"`
	TriggeredBy TriggerSource `json:"triggered_by"`
	Progress    *JobProgress  `json:"progress,omitempty"`
	Result      *JobResult    `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
