package domain

import "time"

// AttendanceStatus classifies one employee-day.
type AttendanceStatus string

const (
	StatusOnTime         AttendanceStatus = "on_time"
	StatusLate           AttendanceStatus = "late"
	StatusVeryLate       AttendanceStatus = "very_late"
	StatusAbsent         AttendanceStatus = "absent"
	StatusOffDay         AttendanceStatus = "off_day"
	StatusEarlyDeparture AttendanceStatus = "early_departure"
)

// BreakStatus classifies the break pair of one employee-day.
type BreakStatus string

const (
	BreakNormal BreakStatus = "normal"
	BreakLong   BreakStatus = "long_break"
	BreakNone   BreakStatus = "no_break"
)

// LatenessRecord is the derived verdict for one (employee, date). It is
// recomputed in place: same schedule + attendance always yields the same
// record. Lateness magnitudes are signed minutes (positive = late/overrun).
type LatenessRecord struct {
	EmployeeID     string `json:"employee_id"`
	Date           string `json:"date"`
	ShiftCode      string `json:"shift_code"`
	ScheduledStart string `json:"scheduled_start"`
	ScheduledEnd   string `json:"scheduled_end"`

	// Actual punch times; empty string means no punch.
	ActualStart    string `json:"actual_start,omitempty"`
	ActualBreakOut string `json:"actual_break_out,omitempty"`
	ActualBreakIn  string `json:"actual_break_in,omitempty"`
	ActualEnd      string `json:"actual_end,omitempty"`

	StartLatenessMinutes float64 `json:"start_lateness_minutes"`
	EndLatenessMinutes   float64 `json:"end_lateness_minutes"`
	BreakLatenessMinutes float64 `json:"break_lateness_minutes"`

	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	BreakStatus      BreakStatus      `json:"break_status"`

	// Nominal daily workload from the scheduled window, not actual punches.
	TotalWorkingMinutes  float64 `json:"total_working_minutes"`
	IsCompleteAttendance bool    `json:"is_complete_attendance"`

	ComputedAt time.Time `json:"computed_at"`
}

// LatenessSummary aggregates the records of one employee over a period.
type LatenessSummary struct {
	TotalDays            int                      `json:"total_days"`
	StatusCounts         map[AttendanceStatus]int `json:"status_counts"`
	TotalLatenessMinutes float64                  `json:"total_lateness_minutes"`
}
