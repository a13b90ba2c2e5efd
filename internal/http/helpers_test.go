package httpapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jadwal-backend/internal/domain"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: make(map[string]string)} }

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("key %s not found", key)
	}
	return val, nil
}

func (m *memKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memKV) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeFetcher returns a canned punch record; release, when set, blocks every
// fetch until closed so a job can be held in the running state.
type fakeFetcher struct {
	release chan struct{}
}

func (f *fakeFetcher) FetchAttendance(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &domain.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       "2026-08-20",
		Start:      domain.Punch{Time: "11:20:00"},
		End:        domain.Punch{Time: "21:10:00"},
		FetchedAt:  time.Now(),
	}, nil
}

type noopArchiver struct{}

func (noopArchiver) IsArchived(string) bool { return true }

func (noopArchiver) ArchiveRecord(context.Context, *domain.AttendanceRecord, bool) int { return 0 }
