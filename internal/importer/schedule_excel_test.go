package importer

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"jadwal-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestParseScheduleWorkbook(t *testing.T) {
	r := buildWorkbook(t, [][]string{
		{"ID", "Nama", "1", "2", "3"},
		{"2405047", "Budi Santoso", "11", "OFF", "pagi"},
		{"2405048", "Siti Rahma", "", "malam", "CUTI"},
	})

	entries, problems, err := ParseScheduleWorkbook(r, "2026-08")
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, entries, 5, "blank cells are unassigned, not entries")

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EmployeeID != entries[j].EmployeeID {
			return entries[i].EmployeeID < entries[j].EmployeeID
		}
		return entries[i].Date < entries[j].Date
	})
	assert.Equal(t, domain.ScheduleEntry{
		EmployeeID: "2405047", EmployeeName: "Budi Santoso", Date: "2026-08-01", ShiftCode: "11",
	}, entries[0])
	assert.Equal(t, "OFF", entries[1].ShiftCode)
	assert.Equal(t, "2026-08-02", entries[1].Date)
	assert.Equal(t, "malam", entries[3].ShiftCode)
	assert.Equal(t, "CUTI", entries[4].ShiftCode)
}

func TestParseScheduleWorkbook_UnknownShiftIsProblemNotError(t *testing.T) {
	r := buildWorkbook(t, [][]string{
		{"ID", "Nama", "1", "2"},
		{"2405047", "Budi Santoso", "99", "11"},
	})

	entries, problems, err := ParseScheduleWorkbook(r, "2026-08")
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], `unknown shift code "99"`)
	require.Len(t, entries, 1, "bad cell is skipped, the rest of the row survives")
	assert.Equal(t, "11", entries[0].ShiftCode)
}

func TestParseScheduleWorkbook_SkipsRowsWithoutEmployeeID(t *testing.T) {
	r := buildWorkbook(t, [][]string{
		{"ID", "Nama", "1"},
		{"", "Orphan Row", "11"},
		{"2405047", "Budi Santoso", "11"},
	})

	entries, _, err := ParseScheduleWorkbook(r, "2026-08")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2405047", entries[0].EmployeeID)
}

func TestParseScheduleWorkbook_Rejections(t *testing.T) {
	_, _, err := ParseScheduleWorkbook(strings.NewReader("not a workbook"), "2026-08")
	assert.Error(t, err)

	r := buildWorkbook(t, [][]string{{"ID", "Nama", "1"}, {"2405047", "Budi", "11"}})
	_, _, err = ParseScheduleWorkbook(r, "08-2026")
	assert.Error(t, err, "month must be YYYY-MM")

	r = buildWorkbook(t, [][]string{{"ID", "Nama", "not-a-day"}, {"2405047", "Budi", "11"}})
	_, _, err = ParseScheduleWorkbook(r, "2026-08")
	assert.Error(t, err, "header without day columns is unusable")

	r = buildWorkbook(t, [][]string{{"ID", "Nama", "1"}})
	_, _, err = ParseScheduleWorkbook(r, "2026-08")
	assert.Error(t, err, "header-only sheet has no data")
}
