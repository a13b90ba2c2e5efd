package domain

import "time"

// SentinelTime is the time-clock's placeholder for "no punch recorded". A
// record whose four punches all carry it counts as absent, not as a set of
// legitimate midnight punches.
const SentinelTime = "00:00:00"

// Punch is one clock event: time of day (HH:MM:SS), the reported address and
// an optional photo URL.
type Punch struct {
	Time     string `json:"time"`
	Address  string `json:"address"`
	ImageURL string `json:"image_url"`
}

// Present reports whether the punch carries a real time.
func (p Punch) Present() bool {
	return p.Time != "" && p.Time != SentinelTime
}

// AttendanceRecord holds the raw punches of one employee on one date,
// keyed by (employee_id, date). Written only by the ingestion processor via
// upsert; re-running a fetch for the same date overwrites in place.
type AttendanceRecord struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Start      Punch     `json:"start"`
	BreakOut   Punch     `json:"break_out"`
	BreakIn    Punch     `json:"break_in"`
	End        Punch     `json:"end"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Empty reports whether the record carries no usable punch at all (every
// time empty or sentinel).
func (r *AttendanceRecord) Empty() bool {
	return !r.Start.Present() && !r.BreakOut.Present() && !r.BreakIn.Present() && !r.End.Present()
}

// Photos returns pointers to the four photo-URL fields in punch order, for
// callers that rewrite them in place after archival.
func (r *AttendanceRecord) Photos() []*string {
	return []*string{&r.Start.ImageURL, &r.BreakOut.ImageURL, &r.BreakIn.ImageURL, &r.End.ImageURL}
}
