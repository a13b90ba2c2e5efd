package service

import (
	"context"
	"fmt"
	"time"

	"jadwal-backend/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// AttendanceFetcher pulls one employee-day of punches from the external
// time-clock system.
type AttendanceFetcher interface {
	FetchAttendance(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error)
}

// timeClockResponse mirrors the vendor payload: a success flag plus
// (time, address, image) triples for the four punch kinds.
type timeClockResponse struct {
	Success bool   `json:"success"`
	Date    string `json:"mset_date"`

	StartTime    string `json:"mset_start_time"`
	StartAddress string `json:"mset_start_address"`
	StartImage   string `json:"mset_start_image"`

	BreakOutTime    string `json:"mset_breakout_time"`
	BreakOutAddress string `json:"mset_breakout_address"`
	BreakOutImage   string `json:"mset_breakout_image"`

	BreakInTime    string `json:"mset_breakin_time"`
	BreakInAddress string `json:"mset_breakin_address"`
	BreakInImage   string `json:"mset_breakin_image"`

	EndTime    string `json:"mset_end_time"`
	EndAddress string `json:"mset_end_address"`
	EndImage   string `json:"mset_end_image"`
}

// TimeClockClient calls the vendor attendance API.
type TimeClockClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

var _ AttendanceFetcher = (*TimeClockClient)(nil)

func NewTimeClockClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TimeClockClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &TimeClockClient{
		httpClient: client,
		logger:     logger,
	}
}

// FetchAttendance posts the employee id form-encoded and maps the response
// into an attendance record. A network failure or an explicit success=false
// is a per-employee error; the caller decides whether to continue.
func (c *TimeClockClient) FetchAttendance(ctx context.Context, employeeID string) (*domain.AttendanceRecord, error) {
	var payload timeClockResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{"employee_id": employeeID}).
		SetResult(&payload).
		Post("/api/attendance")
	if err != nil {
		return nil, fmt.Errorf("time-clock call for %s: %w", employeeID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("time-clock call for %s: HTTP %d", employeeID, resp.StatusCode())
	}
	if !payload.Success {
		return nil, fmt.Errorf("time-clock reported no data for %s", employeeID)
	}

	date := payload.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	rec := &domain.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		Start:      domain.Punch{Time: payload.StartTime, Address: payload.StartAddress, ImageURL: payload.StartImage},
		BreakOut:   domain.Punch{Time: payload.BreakOutTime, Address: payload.BreakOutAddress, ImageURL: payload.BreakOutImage},
		BreakIn:    domain.Punch{Time: payload.BreakInTime, Address: payload.BreakInAddress, ImageURL: payload.BreakInImage},
		End:        domain.Punch{Time: payload.EndTime, Address: payload.EndAddress, ImageURL: payload.EndImage},
		FetchedAt:  time.Now().UTC(),
	}

	c.logger.Debug("fetched attendance",
		zap.String("employee_id", employeeID),
		zap.String("date", rec.Date),
		zap.Bool("empty", rec.Empty()),
	)
	return rec, nil
}
