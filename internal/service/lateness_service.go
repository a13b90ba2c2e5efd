package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jadwal-backend/internal/domain"
	"jadwal-backend/internal/repository"

	"go.uber.org/zap"
)

// ErrNoSchedule is returned when lateness is requested for a date the
// employee has no schedule entry on.
var ErrNoSchedule = errors.New("no schedule entry for date")

// LatenessService wires the pure engine to the schedule/attendance/lateness
// stores.
type LatenessService struct {
	schedules  repository.SchedulesRepo
	attendance repository.AttendanceRepo
	lateness   repository.LatenessRepo
	logger     *zap.Logger
}

func NewLatenessService(
	schedules repository.SchedulesRepo,
	attendance repository.AttendanceRepo,
	lateness repository.LatenessRepo,
	logger *zap.Logger,
) *LatenessService {
	return &LatenessService{
		schedules:  schedules,
		attendance: attendance,
		lateness:   lateness,
		logger:     logger,
	}
}

// Calculate computes and persists the verdict for one (employee, date).
func (s *LatenessService) Calculate(ctx context.Context, employeeID, date string) (*domain.LatenessRecord, error) {
	entry, err := s.schedules.GetEntry(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s on %s", ErrNoSchedule, employeeID, date)
		}
		return nil, err
	}

	var att *domain.AttendanceRecord
	if !entry.IsOffDay() {
		att, err = s.attendance.Get(ctx, employeeID, date)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	rec, err := ComputeLateness(*entry, att)
	if err != nil {
		return nil, err
	}
	if err := s.lateness.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist lateness %s/%s: %w", employeeID, date, err)
	}
	return rec, nil
}

// CalculateRange recomputes every date in [startDate, endDate] that has a
// schedule entry. Dates without one are skipped, not errors.
func (s *LatenessService) CalculateRange(ctx context.Context, employeeID, startDate, endDate string) ([]*domain.LatenessRecord, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, fmt.Errorf("bad end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	var out []*domain.LatenessRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rec, err := s.Calculate(ctx, employeeID, d.Format("2006-01-02"))
		if err != nil {
			if errors.Is(err, ErrNoSchedule) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Report returns the stored records for a period plus their summary.
func (s *LatenessService) Report(ctx context.Context, employeeID, startDate, endDate string) ([]*domain.LatenessRecord, *domain.LatenessSummary, error) {
	records, err := s.lateness.ListRange(ctx, employeeID, startDate, endDate)
	if err != nil {
		return nil, nil, err
	}
	return records, Summarize(records), nil
}

// Summarize reduces a record set to per-status counts and total lateness.
func Summarize(records []*domain.LatenessRecord) *domain.LatenessSummary {
	summary := &domain.LatenessSummary{
		TotalDays:    len(records),
		StatusCounts: map[domain.AttendanceStatus]int{},
	}
	for _, rec := range records {
		summary.StatusCounts[rec.AttendanceStatus]++
		if rec.StartLatenessMinutes > 0 {
			summary.TotalLatenessMinutes += rec.StartLatenessMinutes
		}
	}
	return summary
}
