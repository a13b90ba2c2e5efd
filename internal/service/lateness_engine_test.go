package service

import (
	"testing"

	"jadwal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryFor(shiftCode string) domain.ScheduleEntry {
	return domain.ScheduleEntry{
		EmployeeID: "2405047",
		Date:       "2026-08-20",
		ShiftCode:  shiftCode,
	}
}

func recordWith(start, breakOut, breakIn, end string) *domain.AttendanceRecord {
	return &domain.AttendanceRecord{
		EmployeeID: "2405047",
		Date:       "2026-08-20",
		Start:      domain.Punch{Time: start},
		BreakOut:   domain.Punch{Time: breakOut},
		BreakIn:    domain.Punch{Time: breakIn},
		End:        domain.Punch{Time: end},
	}
}

func TestMinutesSinceMidnight(t *testing.T) {
	m, err := MinutesSinceMidnight("11:30:00")
	require.NoError(t, err)
	assert.Equal(t, 690.0, m)

	m, err = MinutesSinceMidnight("00:00:30")
	require.NoError(t, err)
	assert.Equal(t, 0.5, m)

	_, err = MinutesSinceMidnight("11:30")
	assert.Error(t, err)
}

func TestComputeLateness_OffDay(t *testing.T) {
	// Off-day verdicts ignore any attendance that happens to exist.
	rec, err := ComputeLateness(entryFor("OFF"), recordWith("08:00:00", "", "", "17:00:00"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOffDay, rec.AttendanceStatus)
	assert.Equal(t, domain.SentinelTime, rec.ScheduledStart)
	assert.Equal(t, domain.SentinelTime, rec.ScheduledEnd)
	assert.Zero(t, rec.StartLatenessMinutes)
	assert.Zero(t, rec.EndLatenessMinutes)
	assert.Zero(t, rec.BreakLatenessMinutes)
}

func TestComputeLateness_AbsentWhenAllSentinel(t *testing.T) {
	att := recordWith("00:00:00", "00:00:00", "00:00:00", "00:00:00")
	rec, err := ComputeLateness(entryFor("11"), att)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAbsent, rec.AttendanceStatus)
	assert.Empty(t, rec.ActualStart)
	assert.Zero(t, rec.StartLatenessMinutes)
}

func TestComputeLateness_AbsentWhenNoRecord(t *testing.T) {
	rec, err := ComputeLateness(entryFor("11"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbsent, rec.AttendanceStatus)
}

func TestComputeLateness_AbsentWhenStartMissing(t *testing.T) {
	rec, err := ComputeLateness(entryFor("11"), recordWith("", "", "", "21:00:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAbsent, rec.AttendanceStatus)
}

func TestComputeLateness_InvalidShift(t *testing.T) {
	_, err := ComputeLateness(entryFor("99"), recordWith("08:00:00", "", "", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidShift)
}

func TestComputeLateness_ToleranceBoundary(t *testing.T) {
	// Exactly one minute late clamps to zero.
	rec, err := ComputeLateness(entryFor("11"), recordWith("11:01:00", "", "", "21:00:00"))
	require.NoError(t, err)
	assert.Zero(t, rec.StartLatenessMinutes)
	assert.Equal(t, domain.StatusOnTime, rec.AttendanceStatus)

	// 1.01 minutes does not clamp.
	rec, err = ComputeLateness(entryFor("11"), recordWith("11:01:00.6", "", "", "21:00:00"))
	require.NoError(t, err)
	assert.InDelta(t, 1.01, rec.StartLatenessMinutes, 0.001)
	assert.Equal(t, domain.StatusLate, rec.AttendanceStatus)
}

func TestComputeLateness_CrossMidnightShift(t *testing.T) {
	// malam runs 22:00-06:00; a 22:05 start is 5 minutes late, not -1315.
	rec, err := ComputeLateness(entryFor("malam"), recordWith("22:05:00", "", "", "06:00:00"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, rec.StartLatenessMinutes)
	assert.Equal(t, domain.StatusLate, rec.AttendanceStatus)

	// End punch after midnight measures against the scheduled 06:00 end.
	rec, err = ComputeLateness(entryFor("malam"), recordWith("22:00:00", "", "", "06:10:00"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, rec.EndLatenessMinutes)
}

func TestComputeLateness_StatusPriority(t *testing.T) {
	// 90 minutes late in, 45 minutes early out: early departure wins over
	// very_late.
	rec, err := ComputeLateness(entryFor("11"), recordWith("12:30:00", "", "", "20:15:00"))
	require.NoError(t, err)
	assert.Equal(t, 90.0, rec.StartLatenessMinutes)
	assert.Equal(t, -45.0, rec.EndLatenessMinutes)
	assert.Equal(t, domain.StatusEarlyDeparture, rec.AttendanceStatus)
}

func TestComputeLateness_VeryLate(t *testing.T) {
	rec, err := ComputeLateness(entryFor("11"), recordWith("12:30:00", "", "", "21:00:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVeryLate, rec.AttendanceStatus)
}

func TestComputeLateness_FullScenario(t *testing.T) {
	att := recordWith("11:20:00", "15:00:00", "16:10:00", "21:10:00")
	rec, err := ComputeLateness(entryFor("11"), att)
	require.NoError(t, err)

	assert.Equal(t, 20.0, rec.StartLatenessMinutes)
	assert.Equal(t, 10.0, rec.EndLatenessMinutes)
	assert.Equal(t, 10.0, rec.BreakLatenessMinutes)
	assert.Equal(t, domain.BreakLong, rec.BreakStatus)
	assert.Equal(t, domain.StatusLate, rec.AttendanceStatus)
	assert.True(t, rec.IsCompleteAttendance)
	// Nominal workload comes from the scheduled window: 10h minus 60m break.
	assert.Equal(t, 540.0, rec.TotalWorkingMinutes)
}

func TestComputeLateness_BreakStatuses(t *testing.T) {
	// Break within allowance.
	rec, err := ComputeLateness(entryFor("11"), recordWith("11:00:00", "15:00:00", "15:45:00", "21:00:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakNormal, rec.BreakStatus)
	assert.Zero(t, rec.BreakLatenessMinutes)

	// Missing break-in.
	rec, err = ComputeLateness(entryFor("11"), recordWith("11:00:00", "15:00:00", "", "21:00:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.BreakNone, rec.BreakStatus)
}

func TestComputeLateness_EndToleranceAbsorbsEarlyNoise(t *testing.T) {
	rec, err := ComputeLateness(entryFor("11"), recordWith("11:00:00", "", "", "20:59:30"))
	require.NoError(t, err)
	assert.Zero(t, rec.EndLatenessMinutes)
	assert.Equal(t, domain.StatusOnTime, rec.AttendanceStatus)
}

func TestComputeLateness_IncompleteWithoutEnd(t *testing.T) {
	rec, err := ComputeLateness(entryFor("11"), recordWith("11:00:00", "", "", ""))
	require.NoError(t, err)
	assert.False(t, rec.IsCompleteAttendance)
	assert.Zero(t, rec.EndLatenessMinutes)
	assert.Equal(t, domain.StatusOnTime, rec.AttendanceStatus)
}
