package repository

import (
	"context"
	"errors"

	"jadwal-backend/internal/domain"
)

// ErrNotFound is returned when a keyed lookup matches nothing. Postgres
// implementations translate sql.ErrNoRows into it.
var ErrNotFound = errors.New("record not found")

// SchedulesRepo stores imported schedule entries.
type SchedulesRepo interface {
	UpsertEntries(ctx context.Context, entries []domain.ScheduleEntry) error
	GetEntry(ctx context.Context, employeeID, date string) (*domain.ScheduleEntry, error)
	ListMonth(ctx context.Context, employeeID, yearMonth string) ([]domain.ScheduleEntry, error)
	// ListEmployeeIDs returns the distinct employee ids present in the
	// schedule table; the fetch-all run targets exactly this set.
	ListEmployeeIDs(ctx context.Context) ([]string, error)
}

// AttendanceRepo stores raw punches keyed by (employee_id, date).
type AttendanceRepo interface {
	Upsert(ctx context.Context, rec *domain.AttendanceRecord) error
	Get(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error)
	// List pages through all records in (employee_id, date) order, for the
	// image-migration scan.
	List(ctx context.Context, limit, skip int) ([]*domain.AttendanceRecord, error)
	Count(ctx context.Context) (int, error)
}

// LatenessRepo stores derived lateness verdicts keyed by (employee_id, date).
type LatenessRepo interface {
	Upsert(ctx context.Context, rec *domain.LatenessRecord) error
	Get(ctx context.Context, employeeID, date string) (*domain.LatenessRecord, error)
	ListRange(ctx context.Context, employeeID, startDate, endDate string) ([]*domain.LatenessRecord, error)
}
