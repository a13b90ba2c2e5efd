package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrJobTerminal       = errors.New("job already in terminal state")
	ErrJobNotRunning     = errors.New("job is not running")
	ErrJobAlreadyRunning = errors.New("a job of this type is already running")
)

const defaultJobHistoryCap = 50

// JobManager owns the lifecycle of ingestion runs: pending → running →
// {completed, failed}. State is process-local and volatile; history is
// bounded, oldest evicted first. It is an operational aid, not a durability
// guarantee.
type JobManager struct {
	mu     sync.Mutex
	jobs   map[string]*domain.Job
	order  []string // creation order, oldest first
	cap    int
	logger *zap.Logger
}

func NewJobManager(historyCap int, logger *zap.Logger) *JobManager {
	if historyCap <= 0 {
		historyCap = defaultJobHistoryCap
	}
	return &JobManager{
		jobs:   map[string]*domain.Job{},
		cap:    historyCap,
		logger: logger,
	}
}

// Create allocates a pending job and evicts the oldest past the cap.
func (m *JobManager) Create(jobType domain.JobType, triggeredBy domain.TriggerSource) *domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(jobType, triggeredBy)
}

// CreateExclusive allocates a pending job unless one of the type is already
// pending or running. The check and the insert happen under one lock, so two
// concurrent triggers cannot both get a job.
func (m *JobManager) CreateExclusive(jobType domain.JobType, triggeredBy domain.TriggerSource) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.Type == jobType && !job.Status.Terminal() {
			return nil, ErrJobAlreadyRunning
		}
	}
	return m.createLocked(jobType, triggeredBy), nil
}

func (m *JobManager) createLocked(jobType domain.JobType, triggeredBy domain.TriggerSource) *domain.Job {
	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		Type:        jobType,
		Status:      domain.JobPending,
		TriggeredBy: triggeredBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.jobs[job.ID] = job
	m.order = append(m.order, job.ID)

	for len(m.order) > m.cap {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.jobs, oldest)
	}

	m.logger.Info("job created",
		zap.String("job_id", job.ID),
		zap.String("type", string(jobType)),
		zap.String("triggered_by", string(triggeredBy)),
	)
	return copyJob(job)
}

// Start moves pending → running.
func (m *JobManager) Start(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrJobTerminal, id)
	}
	if job.Status == domain.JobRunning {
		return fmt.Errorf("job %s already running", id)
	}

	now := time.Now().UTC()
	job.Status = domain.JobRunning
	job.StartedAt = &now
	job.UpdatedAt = now
	return nil
}

// UpdateProgress is allowed only while running.
func (m *JobManager) UpdateProgress(id string, progress domain.JobProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Status != domain.JobRunning {
		return fmt.Errorf("%w: %s", ErrJobNotRunning, id)
	}

	p := progress
	job.Progress = &p
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete moves running → completed with the run summary.
func (m *JobManager) Complete(id string, result domain.JobResult) error {
	return m.finish(id, domain.JobCompleted, &result, "")
}

// Fail moves running → failed with an error message.
func (m *JobManager) Fail(id string, errMsg string) error {
	return m.finish(id, domain.JobFailed, nil, errMsg)
}

func (m *JobManager) finish(id string, status domain.JobStatus, result *domain.JobResult, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if job.Status != domain.JobRunning {
		return fmt.Errorf("%w: %s", ErrJobNotRunning, id)
	}

	now := time.Now().UTC()
	job.Status = status
	job.Result = result
	job.Error = errMsg
	job.FinishedAt = &now
	job.UpdatedAt = now

	m.logger.Info("job finished",
		zap.String("job_id", id),
		zap.String("status", string(status)),
		zap.String("error", errMsg),
	)
	return nil
}

// Get returns a copy of the job.
func (m *JobManager) Get(id string) (*domain.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, false
	}
	return copyJob(job), true
}

// List returns all retained jobs, newest first.
func (m *JobManager) List() []*domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Job, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, copyJob(m.jobs[m.order[i]]))
	}
	return out
}

// ListRunning returns the currently running jobs, newest first.
func (m *JobManager) ListRunning() []*domain.Job {
	var out []*domain.Job
	for _, job := range m.List() {
		if job.Status == domain.JobRunning {
			out = append(out, job)
		}
	}
	return out
}

// HasActive reports whether a job of the type is pending or running. This is
// the single-flight guard: a second trigger while one is active is rejected,
// not queued.
func (m *JobManager) HasActive(jobType domain.JobType) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.Type == jobType && !job.Status.Terminal() {
			return true
		}
	}
	return false
}

func copyJob(job *domain.Job) *domain.Job {
	cp := *job
	if job.Progress != nil {
		p := *job.Progress
		cp.Progress = &p
	}
	if job.Result != nil {
		r := *job.Result
		cp.Result = &r
	}
	return &cp
}
