package service

import (
	"context"
	"sync"
	"time"

	"jadwal-backend/internal/domain"
	"jadwal-backend/internal/repository"

	"go.uber.org/zap"
)

// IngestProcessor pulls raw attendance for a set of employees from the
// time-clock system, archives punch photos and upserts the records. Failures
// are tolerated per employee and per photo; the batch always runs to the end.
type IngestProcessor struct {
	fetcher    AttendanceFetcher
	archiver   PhotoArchiver
	attendance repository.AttendanceRepo
	batchSize  int
	batchDelay time.Duration
	logger     *zap.Logger
}

func NewIngestProcessor(
	fetcher AttendanceFetcher,
	archiver PhotoArchiver,
	attendance repository.AttendanceRepo,
	batchSize int,
	batchDelay time.Duration,
	logger *zap.Logger,
) *IngestProcessor {
	if batchSize <= 0 {
		batchSize = 4
	}
	return &IngestProcessor{
		fetcher:    fetcher,
		archiver:   archiver,
		attendance: attendance,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		logger:     logger,
	}
}

// Run processes employees in fixed-size batches. Within a batch employees
// fan out concurrently (each one also fans out its photo archival); batches
// are strictly sequential with a pacing delay between them so the upstream
// rate limits are respected. The progress callback, when set, is invoked
// after every batch.
func (p *IngestProcessor) Run(ctx context.Context, employeeIDs []string, progress func(domain.JobProgress)) domain.JobResult {
	result := domain.JobResult{Total: len(employeeIDs)}
	if len(employeeIDs) == 0 {
		return result
	}

	totalBatches := (len(employeeIDs) + p.batchSize - 1) / p.batchSize

	var mu sync.Mutex
	done := 0
	for b := 0; b*p.batchSize < len(employeeIDs); b++ {
		start := b * p.batchSize
		end := start + p.batchSize
		if end > len(employeeIDs) {
			end = len(employeeIDs)
		}
		batch := employeeIDs[start:end]

		var wg sync.WaitGroup
		for _, id := range batch {
			wg.Add(1)
			go func(employeeID string) {
				defer wg.Done()
				err := p.processEmployee(ctx, employeeID)
				mu.Lock()
				defer mu.Unlock()
				done++
				if err != nil {
					result.Failed++
					p.logger.Warn("attendance ingest failed for employee",
						zap.String("employee_id", employeeID), zap.Error(err))
				} else {
					result.Succeeded++
				}
			}(id)
		}
		wg.Wait()

		if progress != nil {
			progress(domain.JobProgress{
				Current:      done,
				Total:        len(employeeIDs),
				Batch:        b + 1,
				TotalBatches: totalBatches,
			})
		}

		// Pace between batches, not after the last one.
		if end < len(employeeIDs) && p.batchDelay > 0 {
			select {
			case <-time.After(p.batchDelay):
			case <-ctx.Done():
				result.Failed += len(employeeIDs) - done
				return result
			}
		}
	}

	p.logger.Info("attendance ingest finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result
}

func (p *IngestProcessor) processEmployee(ctx context.Context, employeeID string) error {
	rec, err := p.fetcher.FetchAttendance(ctx, employeeID)
	if err != nil {
		return err
	}

	p.archiver.ArchiveRecord(ctx, rec, false)

	return p.attendance.Upsert(ctx, rec)
}

// MigrationRecordResult reports one record of a migration pass.
type MigrationRecordResult struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Updated    int    `json:"updated"`
	Status     string `json:"status"` // updated | skipped | failed
}

// MigrationResult is the page summary of an image-migration pass.
type MigrationResult struct {
	TotalRecords int                     `json:"totalRecords"`
	Processed    int                     `json:"processed"`
	Success      int                     `json:"success"`
	Failed       int                     `json:"failed"`
	HasMore      bool                    `json:"hasMore"`
	NextSkip     int                     `json:"nextSkip"`
	Results      []MigrationRecordResult `json:"results"`
}

// MigrateImages re-runs photo archival over already-stored attendance
// records, without touching the time-clock API. force re-processes URLs that
// already point at the CDN.
func (p *IngestProcessor) MigrateImages(ctx context.Context, limit, skip int, force bool) (*MigrationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	total, err := p.attendance.Count(ctx)
	if err != nil {
		return nil, err
	}
	records, err := p.attendance.List(ctx, limit, skip)
	if err != nil {
		return nil, err
	}

	out := &MigrationResult{
		TotalRecords: total,
		HasMore:      skip+len(records) < total,
		NextSkip:     skip + len(records),
	}

	for _, rec := range records {
		out.Processed++

		needsWork := force
		if !needsWork {
			for _, slot := range rec.Photos() {
				if *slot != "" && !p.archiver.IsArchived(*slot) {
					needsWork = true
					break
				}
			}
		}
		if !needsWork {
			out.Success++
			out.Results = append(out.Results, MigrationRecordResult{
				EmployeeID: rec.EmployeeID, Date: rec.Date, Status: "skipped",
			})
			continue
		}

		updated := p.archiver.ArchiveRecord(ctx, rec, force)
		status := "skipped"
		if updated > 0 {
			if err := p.attendance.Upsert(ctx, rec); err != nil {
				out.Failed++
				out.Results = append(out.Results, MigrationRecordResult{
					EmployeeID: rec.EmployeeID, Date: rec.Date, Updated: updated, Status: "failed",
				})
				p.logger.Warn("migration upsert failed",
					zap.String("employee_id", rec.EmployeeID),
					zap.String("date", rec.Date), zap.Error(err))
				continue
			}
			status = "updated"
		}
		out.Success++
		out.Results = append(out.Results, MigrationRecordResult{
			EmployeeID: rec.EmployeeID, Date: rec.Date, Updated: updated, Status: status,
		})
	}

	return out, nil
}
