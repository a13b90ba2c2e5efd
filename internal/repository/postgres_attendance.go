package repository

import (
	"context"
	"database/sql"

	"jadwal-backend/internal/domain"
)

// PostgresAttendanceRepo stores raw attendance punches. The upsert keyed by
// (employee_id, work_date) makes ingestion re-runs idempotent.
type PostgresAttendanceRepo struct {
	db *sql.DB
}

func NewPostgresAttendanceRepo(db *sql.DB) *PostgresAttendanceRepo {
	return &PostgresAttendanceRepo{db: db}
}

var _ AttendanceRepo = (*PostgresAttendanceRepo)(nil)

func (r *PostgresAttendanceRepo) Upsert(ctx context.Context, rec *domain.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (
			employee_id, work_date,
			start_time, start_address, start_image,
			breakout_time, breakout_address, breakout_image,
			breakin_time, breakin_address, breakin_image,
			end_time, end_address, end_image,
			fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (employee_id, work_date)
		DO UPDATE SET
			start_time = EXCLUDED.start_time, start_address = EXCLUDED.start_address, start_image = EXCLUDED.start_image,
			breakout_time = EXCLUDED.breakout_time, breakout_address = EXCLUDED.breakout_address, breakout_image = EXCLUDED.breakout_image,
			breakin_time = EXCLUDED.breakin_time, breakin_address = EXCLUDED.breakin_address, breakin_image = EXCLUDED.breakin_image,
			end_time = EXCLUDED.end_time, end_address = EXCLUDED.end_address, end_image = EXCLUDED.end_image,
			fetched_at = EXCLUDED.fetched_at
	`,
		rec.EmployeeID, rec.Date,
		rec.Start.Time, rec.Start.Address, rec.Start.ImageURL,
		rec.BreakOut.Time, rec.BreakOut.Address, rec.BreakOut.ImageURL,
		rec.BreakIn.Time, rec.BreakIn.Address, rec.BreakIn.ImageURL,
		rec.End.Time, rec.End.Address, rec.End.ImageURL,
		rec.FetchedAt,
	)
	return err
}

func (r *PostgresAttendanceRepo) Get(ctx context.Context, employeeID, date string) (*domain.AttendanceRecord, error) {
	query := `
		SELECT employee_id, work_date::text,
		       start_time, start_address, start_image,
		       breakout_time, breakout_address, breakout_image,
		       breakin_time, breakin_address, breakin_image,
		       end_time, end_address, end_image,
		       fetched_at
		FROM attendance_records
		WHERE employee_id = $1 AND work_date = $2
	`

	rec, err := scanAttendance(r.db.QueryRowContext(ctx, query, employeeID, date))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PostgresAttendanceRepo) List(ctx context.Context, limit, skip int) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT employee_id, work_date::text,
		       start_time, start_address, start_image,
		       breakout_time, breakout_address, breakout_image,
		       breakin_time, breakin_address, breakin_image,
		       end_time, end_address, end_image,
		       fetched_at
		FROM attendance_records
		ORDER BY employee_id, work_date
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PostgresAttendanceRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_records`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	var fields [12]sql.NullString

	err := row.Scan(
		&rec.EmployeeID, &rec.Date,
		&fields[0], &fields[1], &fields[2],
		&fields[3], &fields[4], &fields[5],
		&fields[6], &fields[7], &fields[8],
		&fields[9], &fields[10], &fields[11],
		&rec.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Start = domain.Punch{Time: fields[0].String, Address: fields[1].String, ImageURL: fields[2].String}
	rec.BreakOut = domain.Punch{Time: fields[3].String, Address: fields[4].String, ImageURL: fields[5].String}
	rec.BreakIn = domain.Punch{Time: fields[6].String, Address: fields[7].String, ImageURL: fields[8].String}
	rec.End = domain.Punch{Time: fields[9].String, Address: fields[10].String, ImageURL: fields[11].String}
	return &rec, nil
}
