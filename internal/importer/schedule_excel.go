package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Schedule workbooks have one sheet: column A employee id, column B employee
// name, and one column per day of the month whose header is the day number.
// Cells carry a shift code or an off-day marker; blank cells are unassigned.

// ParseScheduleWorkbook reads a schedule spreadsheet for the given month
// ("YYYY-MM"). Returns the parsed entries plus per-cell validation problems;
// a problem skips its cell, never the whole file.
func ParseScheduleWorkbook(r io.Reader, yearMonth string) ([]domain.ScheduleEntry, []string, error) {
	if _, err := time.Parse("2006-01", yearMonth); err != nil {
		return nil, nil, fmt.Errorf("bad month %q: %w", yearMonth, err)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	// Header: map column index → day number.
	header := rows[0]
	days := map[int]int{}
	for col := 2; col < len(header); col++ {
		day, err := strconv.Atoi(strings.TrimSpace(header[col]))
		if err != nil || day < 1 || day > 31 {
			continue
		}
		days[col] = day
	}
	if len(days) == 0 {
		return nil, nil, fmt.Errorf("header row has no day columns")
	}

	var entries []domain.ScheduleEntry
	var problems []string
	for rowIdx, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		employeeID := strings.TrimSpace(row[0])
		employeeName := ""
		if len(row) > 1 {
			employeeName = strings.TrimSpace(row[1])
		}

		for col, day := range days {
			if col >= len(row) {
				continue
			}
			code := strings.TrimSpace(row[col])
			if code == "" {
				continue
			}
			if !domain.IsOffMarker(code) {
				if _, err := domain.ResolveShift(code); err != nil {
					problems = append(problems, fmt.Sprintf(
						"row %d day %d: unknown shift code %q", rowIdx+2, day, code))
					continue
				}
			}
			entries = append(entries, domain.ScheduleEntry{
				EmployeeID:   employeeID,
				EmployeeName: employeeName,
				Date:         fmt.Sprintf("%s-%02d", yearMonth, day),
				ShiftCode:    code,
			})
		}
	}

	return entries, problems, nil
}
