package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ShiftConfig describes one work pattern: scheduled start/end times of day
// (HH:MM:SS) and the break allowance in minutes. Loaded once at process
// start, never mutated.
type ShiftConfig struct {
	Code                string
	ScheduledStart      string
	ScheduledEnd        string
	AllowedBreakMinutes int
}

// ErrInvalidShift is returned when a shift code resolves to nothing in
// either the primary table or the numeric fallback mapping.
var ErrInvalidShift = errors.New("invalid shift code")

// Primary shift table. Numeric codes "7".."14" are 10-hour windows starting
// at that hour with a 60-minute break; the named patterns back the legacy
// numeric fallback codes. "malam" crosses midnight.
var shiftTable = map[string]ShiftConfig{
	"7":  {Code: "7", ScheduledStart: "07:00:00", ScheduledEnd: "17:00:00", AllowedBreakMinutes: 60},
	"8":  {Code: "8", ScheduledStart: "08:00:00", ScheduledEnd: "18:00:00", AllowedBreakMinutes: 60},
	"9":  {Code: "9", ScheduledStart: "09:00:00", ScheduledEnd: "19:00:00", AllowedBreakMinutes: 60},
	"10": {Code: "10", ScheduledStart: "10:00:00", ScheduledEnd: "20:00:00", AllowedBreakMinutes: 60},
	"11": {Code: "11", ScheduledStart: "11:00:00", ScheduledEnd: "21:00:00", AllowedBreakMinutes: 60},
	"12": {Code: "12", ScheduledStart: "12:00:00", ScheduledEnd: "22:00:00", AllowedBreakMinutes: 60},
	"13": {Code: "13", ScheduledStart: "13:00:00", ScheduledEnd: "23:00:00", AllowedBreakMinutes: 60},
	"14": {Code: "14", ScheduledStart: "14:00:00", ScheduledEnd: "24:00:00", AllowedBreakMinutes: 60},

	"pagi":  {Code: "pagi", ScheduledStart: "07:00:00", ScheduledEnd: "17:00:00", AllowedBreakMinutes: 60},
	"siang": {Code: "siang", ScheduledStart: "11:00:00", ScheduledEnd: "21:00:00", AllowedBreakMinutes: 60},
	"malam": {Code: "malam", ScheduledStart: "22:00:00", ScheduledEnd: "06:00:00", AllowedBreakMinutes: 60},
}

// fallbackShiftNames maps legacy numeric codes that have no primary entry to
// a named pattern. Kept as an explicit second-level table so the resolution
// order stays a single testable function.
var fallbackShiftNames = map[string]string{
	"1": "pagi",
	"2": "siang",
	"3": "malam",
}

// ResolveShift looks a shift code up in the primary table, then (for numeric
// codes only) in the fallback name mapping. Unresolvable codes are a hard
// error: schedules referencing them must not silently compute lateness.
func ResolveShift(code string) (ShiftConfig, error) {
	if cfg, ok := shiftTable[code]; ok {
		return cfg, nil
	}
	if _, err := strconv.Atoi(code); err == nil {
		if name, ok := fallbackShiftNames[code]; ok {
			if cfg, ok := shiftTable[name]; ok {
				return cfg, nil
			}
		}
	}
	return ShiftConfig{}, fmt.Errorf("%w: %q", ErrInvalidShift, code)
}

// Off-day markers used by the schedule importer. "CUTI" is approved leave.
var offMarkers = map[string]bool{
	"OFF":  true,
	"off":  true,
	"CUTI": true,
	"cuti": true,
}

// IsOffMarker reports whether a schedule cell marks a non-working date.
func IsOffMarker(code string) bool {
	return offMarkers[code]
}
