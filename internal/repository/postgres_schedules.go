package repository

import (
	"context"
	"database/sql"
	"fmt"

	"jadwal-backend/internal/domain"
)

// PostgresSchedulesRepo is the schedules table implementation.
type PostgresSchedulesRepo struct {
	db *sql.DB
}

func NewPostgresSchedulesRepo(db *sql.DB) *PostgresSchedulesRepo {
	return &PostgresSchedulesRepo{db: db}
}

var _ SchedulesRepo = (*PostgresSchedulesRepo)(nil)

func (r *PostgresSchedulesRepo) UpsertEntries(ctx context.Context, entries []domain.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedules upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedules (employee_id, employee_name, work_date, shift_code)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, work_date)
		DO UPDATE SET employee_name = EXCLUDED.employee_name,
		              shift_code    = EXCLUDED.shift_code
	`)
	if err != nil {
		return fmt.Errorf("prepare schedules upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.EmployeeID, e.EmployeeName, e.Date, e.ShiftCode); err != nil {
			return fmt.Errorf("upsert schedule %s/%s: %w", e.EmployeeID, e.Date, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresSchedulesRepo) GetEntry(ctx context.Context, employeeID, date string) (*domain.ScheduleEntry, error) {
	query := `
		SELECT employee_id, employee_name, work_date::text, shift_code
		FROM schedules
		WHERE employee_id = $1 AND work_date = $2
	`

	var e domain.ScheduleEntry
	err := r.db.QueryRowContext(ctx, query, employeeID, date).Scan(
		&e.EmployeeID, &e.EmployeeName, &e.Date, &e.ShiftCode,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresSchedulesRepo) ListMonth(ctx context.Context, employeeID, yearMonth string) ([]domain.ScheduleEntry, error) {
	query := `
		SELECT employee_id, employee_name, work_date::text, shift_code
		FROM schedules
		WHERE employee_id = $1 AND to_char(work_date, 'YYYY-MM') = $2
		ORDER BY work_date
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, yearMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeName, &e.Date, &e.ShiftCode); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresSchedulesRepo) ListEmployeeIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT employee_id FROM schedules ORDER BY employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
