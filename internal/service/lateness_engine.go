package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jadwal-backend/internal/domain"
)

// Lateness engine: pure computation from a schedule entry plus raw punches
// to a verdict. No I/O; persistence is the caller's explicit step.

const (
	minutesPerDay = 1440
	// A negative punch-vs-schedule difference larger than half a day means
	// the punch wrapped past midnight.
	midnightWrapThreshold = 720

	startToleranceMinutes   = 1.0
	endToleranceMinutes     = 1.0
	veryLateThresholdMin    = 60.0
	earlyDepartThresholdMin = -30.0
)

// MinutesSinceMidnight converts "HH:MM:SS" to minutes since midnight.
// Fractional seconds contribute fractional minutes.
func MinutesSinceMidnight(t string) (float64, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	return float64(h*60+m) + s/60, nil
}

// timeDiffMinutes returns actual − scheduled in minutes. When the naive
// difference is negative by more than 12 hours the actual time is taken to
// have wrapped past midnight, which handles shifts crossing 00:00.
func timeDiffMinutes(actual, scheduled string) (float64, error) {
	a, err := MinutesSinceMidnight(actual)
	if err != nil {
		return 0, err
	}
	s, err := MinutesSinceMidnight(scheduled)
	if err != nil {
		return 0, err
	}
	diff := a - s
	if diff < 0 && -diff > midnightWrapThreshold {
		diff += minutesPerDay
	}
	return diff, nil
}

// scheduledWindowMinutes is the nominal workload of a shift: scheduled span
// (midnight-aware) minus the break allowance.
func scheduledWindowMinutes(cfg domain.ShiftConfig) (float64, error) {
	span, err := timeDiffMinutes(cfg.ScheduledEnd, cfg.ScheduledStart)
	if err != nil {
		return 0, err
	}
	if span < 0 {
		span += minutesPerDay
	}
	return span - float64(cfg.AllowedBreakMinutes), nil
}

// ComputeLateness derives the verdict for one (employee, date). att may be
// nil when no punches were ingested for the date.
func ComputeLateness(entry domain.ScheduleEntry, att *domain.AttendanceRecord) (*domain.LatenessRecord, error) {
	rec := &domain.LatenessRecord{
		EmployeeID:       entry.EmployeeID,
		Date:             entry.Date,
		ShiftCode:        entry.ShiftCode,
		AttendanceStatus: domain.StatusOnTime,
		BreakStatus:      domain.BreakNone,
		ComputedAt:       time.Now().UTC(),
	}

	if entry.IsOffDay() {
		rec.ScheduledStart = domain.SentinelTime
		rec.ScheduledEnd = domain.SentinelTime
		rec.AttendanceStatus = domain.StatusOffDay
		return rec, nil
	}

	cfg, err := domain.ResolveShift(entry.ShiftCode)
	if err != nil {
		return nil, err
	}
	rec.ScheduledStart = cfg.ScheduledStart
	rec.ScheduledEnd = cfg.ScheduledEnd

	total, err := scheduledWindowMinutes(cfg)
	if err != nil {
		return nil, fmt.Errorf("shift %s: %w", cfg.Code, err)
	}
	rec.TotalWorkingMinutes = total

	// No record, no start punch, or four sentinel times: absent.
	if att == nil || !att.Start.Present() || att.Empty() {
		rec.AttendanceStatus = domain.StatusAbsent
		return rec, nil
	}

	if att.Start.Present() {
		rec.ActualStart = att.Start.Time
	}
	if att.BreakOut.Present() {
		rec.ActualBreakOut = att.BreakOut.Time
	}
	if att.BreakIn.Present() {
		rec.ActualBreakIn = att.BreakIn.Time
	}
	if att.End.Present() {
		rec.ActualEnd = att.End.Time
	}
	rec.IsCompleteAttendance = att.Start.Present() && att.End.Present()

	startLate, err := timeDiffMinutes(att.Start.Time, cfg.ScheduledStart)
	if err != nil {
		return nil, err
	}
	// Absorb clock-skew noise just past the scheduled time.
	if startLate >= 0 && startLate <= startToleranceMinutes {
		startLate = 0
	}
	rec.StartLatenessMinutes = startLate

	var endLate float64
	if att.End.Present() {
		endLate, err = timeDiffMinutes(att.End.Time, cfg.ScheduledEnd)
		if err != nil {
			return nil, err
		}
		if endLate >= -endToleranceMinutes && endLate <= endToleranceMinutes {
			endLate = 0
		}
		rec.EndLatenessMinutes = endLate
	}

	if att.BreakOut.Present() && att.BreakIn.Present() {
		breakDur, err := timeDiffMinutes(att.BreakIn.Time, att.BreakOut.Time)
		if err != nil {
			return nil, err
		}
		if breakDur < 0 {
			breakDur = -breakDur
		}
		overrun := breakDur - float64(cfg.AllowedBreakMinutes)
		if overrun < 0 {
			overrun = 0
		}
		rec.BreakLatenessMinutes = overrun
		if breakDur > float64(cfg.AllowedBreakMinutes) {
			rec.BreakStatus = domain.BreakLong
		} else {
			rec.BreakStatus = domain.BreakNormal
		}
	}

	switch {
	case att.End.Present() && endLate < earlyDepartThresholdMin:
		rec.AttendanceStatus = domain.StatusEarlyDeparture
	case startLate > veryLateThresholdMin:
		rec.AttendanceStatus = domain.StatusVeryLate
	case startLate > 0:
		rec.AttendanceStatus = domain.StatusLate
	default:
		rec.AttendanceStatus = domain.StatusOnTime
	}

	return rec, nil
}
