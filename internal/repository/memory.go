package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"jadwal-backend/internal/domain"
)

// In-memory repository implementations, used when the service runs without a
// database and as fixtures in tests.

type MemorySchedulesRepo struct {
	mu      sync.RWMutex
	entries map[string]domain.ScheduleEntry // employeeID|date
}

func NewMemorySchedulesRepo() *MemorySchedulesRepo {
	return &MemorySchedulesRepo{entries: map[string]domain.ScheduleEntry{}}
}

var _ SchedulesRepo = (*MemorySchedulesRepo)(nil)

func scheduleKey(employeeID, date string) string { return employeeID + "|" + date }

func (r *MemorySchedulesRepo) UpsertEntries(ctx context.Context, entries []domain.ScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[scheduleKey(e.EmployeeID, e.Date)] = e
	}
	return nil
}

func (r *MemorySchedulesRepo) GetEntry(ctx context.Context, employeeID, date string) (*domain.ScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[scheduleKey(employeeID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (r *MemorySchedulesRepo) ListMonth(ctx context.Context, employeeID, yearMonth string) ([]domain.ScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ScheduleEntry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && strings.HasPrefix(e.Date, yearMonth) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemorySchedulesRepo) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	var ids []string
	for _, e := range r.entries {
		if !seen[e.EmployeeID] {
			seen[e.EmployeeID] = true
			ids = append(ids, e.EmployeeID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type MemoryAttendanceRepo struct {
	mu      sync.RWMutex
	records map[string]domain.AttendanceRecord
}

func NewMemoryAttendanceRepo() *MemoryAttendanceRepo {
	return &MemoryAttendanceRepo{records: map[string]domain.AttendanceRecord{}}
}

var _ AttendanceRepo = (*MemoryAttendanceRepo)(nil)

func (r *MemoryAttendanceRepo) Upsert(ctx context.Context, rec *domain.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[scheduleKey(rec.EmployeeID, rec.Date)] = *rec
	return nil
}

func (r *MemoryAttendanceRepo) Get(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[scheduleKey(employeeID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r *MemoryAttendanceRepo) List(ctx context.Context, limit, skip int) ([]*domain.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.records))
	for k := range r.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*domain.AttendanceRecord
	for i := skip; i < len(keys) && len(out) < limit; i++ {
		rec := r.records[keys[i]]
		out = append(out, &rec)
	}
	return out, nil
}

func (r *MemoryAttendanceRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

type MemoryLatenessRepo struct {
	mu      sync.RWMutex
	records map[string]domain.LatenessRecord
}

func NewMemoryLatenessRepo() *MemoryLatenessRepo {
	return &MemoryLatenessRepo{records: map[string]domain.LatenessRecord{}}
}

var _ LatenessRepo = (*MemoryLatenessRepo)(nil)

func (r *MemoryLatenessRepo) Upsert(ctx context.Context, rec *domain.LatenessRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[scheduleKey(rec.EmployeeID, rec.Date)] = *rec
	return nil
}

func (r *MemoryLatenessRepo) Get(ctx context.Context, employeeID, date string) (*domain.LatenessRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[scheduleKey(employeeID, date)]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (r *MemoryLatenessRepo) ListRange(ctx context.Context, employeeID, startDate, endDate string) ([]*domain.LatenessRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.LatenessRecord
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Date >= startDate && rec.Date <= endDate {
			cp := rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
