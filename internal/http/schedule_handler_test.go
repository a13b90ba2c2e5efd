package httpapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"jadwal-backend/internal/domain"
	"jadwal-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func scheduleUploadRequest(t *testing.T, month string, rows [][]string) *http.Request {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("month", month))
	part, err := mw.CreateFormFile("file", "jadwal.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/schedule/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestScheduleUpload(t *testing.T) {
	schedules := repository.NewMemorySchedulesRepo()
	h := NewScheduleHandler(schedules, zap.NewNop())

	req := scheduleUploadRequest(t, "2026-08", [][]string{
		{"ID", "Nama", "1", "2"},
		{"2405047", "Budi Santoso", "11", "OFF"},
	})
	w := httptest.NewRecorder()
	h.Upload(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Imported int      `json:"imported"`
		Problems []string `json:"problems"`
	}
	decodeResult(t, w, &result)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Problems)

	entry, err := schedules.GetEntry(context.Background(), "2405047", "2026-08-01")
	require.NoError(t, err)
	assert.Equal(t, "11", entry.ShiftCode)
}

func TestScheduleUpload_BadMonth(t *testing.T) {
	h := NewScheduleHandler(repository.NewMemorySchedulesRepo(), zap.NewNop())

	req := scheduleUploadRequest(t, "08-2026", [][]string{
		{"ID", "Nama", "1"},
		{"2405047", "Budi", "11"},
	})
	w := httptest.NewRecorder()
	h.Upload(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleUpload_MissingFile(t *testing.T) {
	h := NewScheduleHandler(repository.NewMemorySchedulesRepo(), zap.NewNop())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("month", "2026-08"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/schedule/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Upload(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGetMonth(t *testing.T) {
	schedules := repository.NewMemorySchedulesRepo()
	require.NoError(t, schedules.UpsertEntries(context.Background(), []domain.ScheduleEntry{
		{EmployeeID: "2405047", Date: "2026-08-01", ShiftCode: "11"},
		{EmployeeID: "2405047", Date: "2026-08-02", ShiftCode: "OFF"},
		{EmployeeID: "2405047", Date: "2026-09-01", ShiftCode: "pagi"},
	}))
	h := NewScheduleHandler(schedules, zap.NewNop())

	w := httptest.NewRecorder()
	h.GetMonth(w, httptest.NewRequest(http.MethodGet, "/schedule/2405047?month=2026-08", nil), "2405047")
	require.Equal(t, http.StatusOK, w.Code)

	var entries []domain.ScheduleEntry
	decodeResult(t, w, &entries)
	assert.Len(t, entries, 2, "only the requested month is returned")

	w = httptest.NewRecorder()
	h.GetMonth(w, httptest.NewRequest(http.MethodGet, "/schedule/2405047?month=bad", nil), "2405047")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
