package repository

import (
	"context"
	"database/sql"

	"jadwal-backend/internal/domain"
)

// PostgresLatenessRepo stores derived lateness verdicts. Recomputation
// overwrites the prior row in place.
type PostgresLatenessRepo struct {
	db *sql.DB
}

func NewPostgresLatenessRepo(db *sql.DB) *PostgresLatenessRepo {
	return &PostgresLatenessRepo{db: db}
}

var _ LatenessRepo = (*PostgresLatenessRepo)(nil)

func (r *PostgresLatenessRepo) Upsert(ctx context.Context, rec *domain.LatenessRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lateness_records (
			employee_id, work_date, shift_code,
			scheduled_start, scheduled_end,
			actual_start, actual_break_out, actual_break_in, actual_end,
			start_lateness_minutes, end_lateness_minutes, break_lateness_minutes,
			attendance_status, break_status,
			total_working_minutes, is_complete_attendance, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (employee_id, work_date)
		DO UPDATE SET
			shift_code = EXCLUDED.shift_code,
			scheduled_start = EXCLUDED.scheduled_start,
			scheduled_end = EXCLUDED.scheduled_end,
			actual_start = EXCLUDED.actual_start,
			actual_break_out = EXCLUDED.actual_break_out,
			actual_break_in = EXCLUDED.actual_break_in,
			actual_end = EXCLUDED.actual_end,
			start_lateness_minutes = EXCLUDED.start_lateness_minutes,
			end_lateness_minutes = EXCLUDED.end_lateness_minutes,
			break_lateness_minutes = EXCLUDED.break_lateness_minutes,
			attendance_status = EXCLUDED.attendance_status,
			break_status = EXCLUDED.break_status,
			total_working_minutes = EXCLUDED.total_working_minutes,
			is_complete_attendance = EXCLUDED.is_complete_attendance,
			computed_at = EXCLUDED.computed_at
	`,
		rec.EmployeeID, rec.Date, rec.ShiftCode,
		rec.ScheduledStart, rec.ScheduledEnd,
		nullIfEmpty(rec.ActualStart), nullIfEmpty(rec.ActualBreakOut),
		nullIfEmpty(rec.ActualBreakIn), nullIfEmpty(rec.ActualEnd),
		rec.StartLatenessMinutes, rec.EndLatenessMinutes, rec.BreakLatenessMinutes,
		string(rec.AttendanceStatus), string(rec.BreakStatus),
		rec.TotalWorkingMinutes, rec.IsCompleteAttendance, rec.ComputedAt,
	)
	return err
}

func (r *PostgresLatenessRepo) Get(ctx context.Context, employeeID, date string) (*domain.LatenessRecord, error) {
	query := latenessSelect + ` WHERE employee_id = $1 AND work_date = $2`

	rec, err := scanLateness(r.db.QueryRowContext(ctx, query, employeeID, date))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresLatenessRepo) ListRange(ctx context.Context, employeeID, startDate, endDate string) ([]*domain.LatenessRecord, error) {
	query := latenessSelect + `
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY work_date
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.LatenessRecord
	for rows.Next() {
		rec, err := scanLateness(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const latenessSelect = `
	SELECT employee_id, work_date::text, shift_code,
	       scheduled_start, scheduled_end,
	       actual_start, actual_break_out, actual_break_in, actual_end,
	       start_lateness_minutes, end_lateness_minutes, break_lateness_minutes,
	       attendance_status, break_status,
	       total_working_minutes, is_complete_attendance, computed_at
	FROM lateness_records`

func scanLateness(row rowScanner) (*domain.LatenessRecord, error) {
	var rec domain.LatenessRecord
	var actualStart, actualBreakOut, actualBreakIn, actualEnd sql.NullString
	var attendanceStatus, breakStatus string

	err := row.Scan(
		&rec.EmployeeID, &rec.Date, &rec.ShiftCode,
		&rec.ScheduledStart, &rec.ScheduledEnd,
		&actualStart, &actualBreakOut, &actualBreakIn, &actualEnd,
		&rec.StartLatenessMinutes, &rec.EndLatenessMinutes, &rec.BreakLatenessMinutes,
		&attendanceStatus, &breakStatus,
		&rec.TotalWorkingMinutes, &rec.IsCompleteAttendance, &rec.ComputedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ActualStart = actualStart.String
	rec.ActualBreakOut = actualBreakOut.String
	rec.ActualBreakIn = actualBreakIn.String
	rec.ActualEnd = actualEnd.String
	rec.AttendanceStatus = domain.AttendanceStatus(attendanceStatus)
	rec.BreakStatus = domain.BreakStatus(breakStatus)
	return &rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
