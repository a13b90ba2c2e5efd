package repository

import (
	"context"
	"testing"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceColumns = []string{
	"employee_id", "work_date",
	"start_time", "start_address", "start_image",
	"breakout_time", "breakout_address", "breakout_image",
	"breakin_time", "breakin_address", "breakin_image",
	"end_time", "end_address", "end_image",
	"fetched_at",
}

func TestPostgresAttendanceRepo_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAttendanceRepo(db)
	rec := &domain.AttendanceRecord{
		EmployeeID: "2405047",
		Date:       "2026-08-20",
		Start:      domain.Punch{Time: "11:20:00", Address: "Jl. Sudirman No. 1", ImageURL: "https://cdn.jadwal.id/a.jpg"},
		End:        domain.Punch{Time: "21:10:00"},
		FetchedAt:  time.Now(),
	}

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(
			rec.EmployeeID, rec.Date,
			rec.Start.Time, rec.Start.Address, rec.Start.ImageURL,
			"", "", "",
			"", "", "",
			rec.End.Time, "", "",
			rec.FetchedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAttendanceRepo_GetScansNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAttendanceRepo(db)
	fetchedAt := time.Date(2026, 8, 20, 21, 15, 0, 0, time.UTC)

	rows := sqlmock.NewRows(attendanceColumns).AddRow(
		"2405047", "2026-08-20",
		"11:20:00", "Jl. Sudirman No. 1", nil,
		nil, nil, nil,
		nil, nil, nil,
		"21:10:00", nil, nil,
		fetchedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM attendance_records").
		WithArgs("2405047", "2026-08-20").
		WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "2405047", "2026-08-20")
	require.NoError(t, err)
	assert.Equal(t, "11:20:00", rec.Start.Time)
	assert.Empty(t, rec.Start.ImageURL, "NULL columns scan to empty strings")
	assert.Empty(t, rec.BreakOut.Time)
	assert.Equal(t, "21:10:00", rec.End.Time)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAttendanceRepo_GetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAttendanceRepo(db)
	mock.ExpectQuery("SELECT (.+) FROM attendance_records").
		WithArgs("nobody", "2026-08-20").
		WillReturnRows(sqlmock.NewRows(attendanceColumns))

	_, err = repo.Get(context.Background(), "nobody", "2026-08-20")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresAttendanceRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAttendanceRepo(db)
	fetchedAt := time.Now()
	rows := sqlmock.NewRows(attendanceColumns).
		AddRow("emp-1", "2026-08-20", "08:00:00", nil, nil, nil, nil, nil, nil, nil, nil, "17:00:00", nil, nil, fetchedAt).
		AddRow("emp-2", "2026-08-20", "08:05:00", nil, nil, nil, nil, nil, nil, nil, nil, "17:02:00", nil, nil, fetchedAt)
	mock.ExpectQuery("SELECT (.+) FROM attendance_records").
		WithArgs(50, 0).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "emp-2", records[1].EmployeeID)
}

func TestPostgresSchedulesRepo_UpsertEntriesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSchedulesRepo(db)
	entries := []domain.ScheduleEntry{
		{EmployeeID: "2405047", EmployeeName: "Budi Santoso", Date: "2026-08-20", ShiftCode: "11"},
		{EmployeeID: "2405047", EmployeeName: "Budi Santoso", Date: "2026-08-21", ShiftCode: "OFF"},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO schedules")
	for _, e := range entries {
		prep.ExpectExec().
			WithArgs(e.EmployeeID, e.EmployeeName, e.Date, e.ShiftCode).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertEntries(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSchedulesRepo_UpsertEntriesEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSchedulesRepo(db)
	require.NoError(t, repo.UpsertEntries(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet(), "no entries means no round trips")
}

func TestPostgresSchedulesRepo_GetEntryNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSchedulesRepo(db)
	mock.ExpectQuery("SELECT (.+) FROM schedules").
		WithArgs("2405047", "2026-08-20").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "employee_name", "work_date", "shift_code"}))

	_, err = repo.GetEntry(context.Background(), "2405047", "2026-08-20")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresSchedulesRepo_ListEmployeeIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresSchedulesRepo(db)
	mock.ExpectQuery("SELECT DISTINCT employee_id FROM schedules").
		WillReturnRows(sqlmock.NewRows([]string{"employee_id"}).AddRow("emp-1").AddRow("emp-2"))

	ids, err := repo.ListEmployeeIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1", "emp-2"}, ids)
}

var latenessColumns = []string{
	"employee_id", "work_date", "shift_code",
	"scheduled_start", "scheduled_end",
	"actual_start", "actual_break_out", "actual_break_in", "actual_end",
	"start_lateness_minutes", "end_lateness_minutes", "break_lateness_minutes",
	"attendance_status", "break_status",
	"total_working_minutes", "is_complete_attendance", "computed_at",
}

func TestPostgresLatenessRepo_UpsertNullsEmptyPunches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresLatenessRepo(db)
	computedAt := time.Now()
	rec := &domain.LatenessRecord{
		EmployeeID:           "2405047",
		Date:                 "2026-08-20",
		ShiftCode:            "11",
		ScheduledStart:       "11:00:00",
		ScheduledEnd:         "21:00:00",
		ActualStart:          "11:20:00",
		StartLatenessMinutes: 20,
		AttendanceStatus:     domain.StatusLate,
		BreakStatus:          domain.BreakNone,
		TotalWorkingMinutes:  540,
		ComputedAt:           computedAt,
	}

	mock.ExpectExec("INSERT INTO lateness_records").
		WithArgs(
			"2405047", "2026-08-20", "11",
			"11:00:00", "21:00:00",
			"11:20:00", nil, nil, nil,
			20.0, 0.0, 0.0,
			"late", "no_break",
			540.0, false, computedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLatenessRepo_ListRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresLatenessRepo(db)
	computedAt := time.Now()
	rows := sqlmock.NewRows(latenessColumns).
		AddRow("2405047", "2026-08-20", "11", "11:00:00", "21:00:00",
			"11:20:00", nil, nil, "21:10:00",
			20.0, 10.0, 0.0, "late", "no_break", 540.0, true, computedAt).
		AddRow("2405047", "2026-08-21", "OFF", "00:00:00", "00:00:00",
			nil, nil, nil, nil,
			0.0, 0.0, 0.0, "off_day", "no_break", 0.0, false, computedAt)
	mock.ExpectQuery("SELECT (.+) FROM lateness_records").
		WithArgs("2405047", "2026-08-01", "2026-08-31").
		WillReturnRows(rows)

	records, err := repo.ListRange(context.Background(), "2405047", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.StatusLate, records[0].AttendanceStatus)
	assert.Empty(t, records[1].ActualStart)
	assert.Equal(t, domain.StatusOffDay, records[1].AttendanceStatus)
}
