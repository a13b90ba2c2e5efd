package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunSummary is the structured outcome of one orchestrator invocation. It is
// always logged and is the pipeline's audit trail.
type RunSummary struct {
	Success     bool
	TriggeredBy domain.TriggerSource
	Duration    time.Duration
	Attempts    int
	Result      *domain.JobResult
	Error       string
}

// Notifier delivers run summaries out of band (e-mail). May be nil.
type Notifier interface {
	NotifyRunFailure(summary RunSummary) error
}

// ErrSyncConflict marks a trigger rejected because a run is already active.
// It is definite: the orchestrator does not retry it.
var ErrSyncConflict = errors.New("attendance sync already in progress")

// OrchestratorConfig tunes the scheduled sync runner.
type OrchestratorConfig struct {
	BaseURL      string
	Username     string
	Password     string
	CronSpecs    []string
	Timezone     string
	PollInterval time.Duration
	WaitBudget   time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
}

// Orchestrator drives scheduled attendance syncs: authenticate with a cached
// bearer token, trigger the service's own ingestion endpoint, then poll the
// job until terminal or the wait budget runs out. Transient failures are
// retried with exponential backoff.
type Orchestrator struct {
	cfg      OrchestratorConfig
	client   *resty.Client
	tokens   *TokenCache
	notifier Notifier
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewOrchestrator(cfg OrchestratorConfig, tokens *TokenCache, notifier Notifier, logger *zap.Logger) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.WaitBudget <= 0 {
		cfg.WaitBudget = 10 * time.Minute
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

// StartSchedules registers every configured cron expression and starts the
// scheduler. Each expression is independent; a deployment may run a daytime
// schedule plus a late-night one.
func (o *Orchestrator) StartSchedules() error {
	loc, err := time.LoadLocation(o.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid sync timezone %q: %w", o.cfg.Timezone, err)
	}

	o.cron = cron.New(cron.WithLocation(loc))
	for _, spec := range o.cfg.CronSpecs {
		spec := spec
		if _, err := o.cron.AddFunc(spec, func() {
			o.RunOnce(context.Background(), domain.TriggerScheduled)
		}); err != nil {
			return fmt.Errorf("invalid cron spec %q: %w", spec, err)
		}
		o.logger.Info("sync schedule registered", zap.String("cron", spec), zap.String("timezone", o.cfg.Timezone))
	}
	o.cron.Start()
	return nil
}

// Stop halts the scheduler; an in-flight run finishes on its own.
func (o *Orchestrator) Stop() {
	if o.cron != nil {
		o.cron.Stop()
	}
}

// RunOnce performs one full sync invocation and returns its summary. The
// authenticate+trigger step gets up to MaxAttempts tries with exponential
// backoff; a conflict (already running) aborts immediately.
func (o *Orchestrator) RunOnce(ctx context.Context, triggeredBy domain.TriggerSource) RunSummary {
	started := time.Now()
	summary := RunSummary{TriggeredBy: triggeredBy}

	var lastErr error
	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		summary.Attempts = attempt

		result, err := o.attempt(ctx, triggeredBy)
		if err == nil {
			summary.Success = true
			summary.Result = result
			break
		}
		lastErr = err
		if errors.Is(err, ErrSyncConflict) {
			break
		}

		if attempt < o.cfg.MaxAttempts {
			backoff := o.cfg.BackoffBase << (attempt - 1) // 2s, 4s, 8s
			o.logger.Warn("sync attempt failed, backing off",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				lastErr = ctx.Err()
				attempt = o.cfg.MaxAttempts
			}
		}
	}

	summary.Duration = time.Since(started)
	if !summary.Success {
		summary.Error = lastErr.Error()
	}

	o.logSummary(summary)
	if !summary.Success && o.notifier != nil {
		if err := o.notifier.NotifyRunFailure(summary); err != nil {
			o.logger.Warn("failed to send run-failure notification", zap.Error(err))
		}
	}
	return summary
}

func (o *Orchestrator) attempt(ctx context.Context, triggeredBy domain.TriggerSource) (*domain.JobResult, error) {
	token, err := o.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	trigger, err := o.trigger(ctx, token, triggeredBy)
	if err != nil {
		return nil, err
	}

	if trigger.JobID != "" {
		return o.poll(ctx, token, trigger.JobID)
	}
	return trigger.Result, nil
}

type loginResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ensureToken returns the cached bearer token, logging in when it is missing
// or expired. Authentication failure is escalated, never silently retried
// inside the same attempt.
func (o *Orchestrator) ensureToken(ctx context.Context) (string, error) {
	if token, ok := o.tokens.Get(ctx); ok {
		return token, nil
	}

	var envelope struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Result  loginResult `json:"result"`
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": o.cfg.Username, "password": o.cfg.Password}).
		SetResult(&envelope).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("login call: %w", err)
	}
	if resp.IsError() || envelope.Result.Token == "" {
		return "", fmt.Errorf("authentication failed: HTTP %d %s", resp.StatusCode(), envelope.Message)
	}

	expiresIn := time.Duration(envelope.Result.ExpiresIn) * time.Second
	if err := o.tokens.Put(ctx, envelope.Result.Token, expiresIn); err != nil {
		o.logger.Warn("failed to cache bearer token", zap.Error(err))
	}
	return envelope.Result.Token, nil
}

type triggerOutcome struct {
	JobID  string
	Result *domain.JobResult
}

func (o *Orchestrator) trigger(ctx context.Context, token string, triggeredBy domain.TriggerSource) (*triggerOutcome, error) {
	var envelope struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Result  struct {
			JobID     string `json:"jobId"`
			Processed int    `json:"processed"`
			Success   int    `json:"success"`
			Failed    int    `json:"failed"`
		} `json:"result"`
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("trigger", string(triggeredBy)).
		SetResult(&envelope).
		Post("/attendance/fetch-all")
	if err != nil {
		return nil, fmt.Errorf("trigger call: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusAccepted:
		if envelope.Result.JobID == "" {
			return nil, fmt.Errorf("trigger accepted but no job id returned")
		}
		return &triggerOutcome{JobID: envelope.Result.JobID}, nil
	case http.StatusOK:
		// Synchronous legacy mode: the final result is already here.
		return &triggerOutcome{Result: &domain.JobResult{
			Total:     envelope.Result.Processed,
			Succeeded: envelope.Result.Success,
			Failed:    envelope.Result.Failed,
		}}, nil
	case http.StatusConflict:
		return nil, ErrSyncConflict
	case http.StatusUnauthorized:
		// Stale token: drop it so the next attempt re-authenticates.
		_ = o.tokens.Clear(ctx)
		return nil, fmt.Errorf("trigger rejected: token expired")
	default:
		return nil, fmt.Errorf("trigger failed: HTTP %d %s", resp.StatusCode(), envelope.Message)
	}
}

// poll watches the job until a terminal state or the wall-clock budget runs
// out. A timeout reports failure but leaves the underlying job to finish on
// its own.
func (o *Orchestrator) poll(ctx context.Context, token, jobID string) (*domain.JobResult, error) {
	deadline := time.Now().Add(o.cfg.WaitBudget)

	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("job %s did not finish within %s", jobID, o.cfg.WaitBudget)
		}
		select {
		case <-time.After(o.cfg.PollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		var envelope struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Result  struct {
				Status string            `json:"status"`
				Result *domain.JobResult `json:"result"`
				Error  string            `json:"error"`
			} `json:"result"`
		}
		resp, err := o.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetResult(&envelope).
			Get("/attendance/job-status/" + jobID)
		if err != nil {
			o.logger.Warn("job status poll failed", zap.String("job_id", jobID), zap.Error(err))
			continue
		}
		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("job %s not found", jobID)
		}
		if resp.IsError() {
			o.logger.Warn("job status poll returned error",
				zap.String("job_id", jobID), zap.Int("status_code", resp.StatusCode()))
			continue
		}

		switch domain.JobStatus(envelope.Result.Status) {
		case domain.JobCompleted:
			return envelope.Result.Result, nil
		case domain.JobFailed:
			return nil, fmt.Errorf("ingestion failed: %s", envelope.Result.Error)
		}
	}
}

func (o *Orchestrator) logSummary(summary RunSummary) {
	fields := []zap.Field{
		zap.Bool("success", summary.Success),
		zap.String("triggered_by", string(summary.TriggeredBy)),
		zap.Duration("duration", summary.Duration),
		zap.Int("attempts", summary.Attempts),
	}
	if summary.Result != nil {
		fields = append(fields,
			zap.Int("processed", summary.Result.Total),
			zap.Int("succeeded", summary.Result.Succeeded),
			zap.Int("failed", summary.Result.Failed),
		)
	}
	if summary.Error != "" {
		fields = append(fields, zap.String("error", summary.Error))
	}
	if summary.Success {
		o.logger.Info("attendance sync finished", fields...)
	} else {
		o.logger.Error("attendance sync failed", fields...)
	}
}
