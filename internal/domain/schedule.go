package domain

// ScheduleEntry assigns one calendar date (YYYY-MM-DD) of one employee to a
// shift code or an off-day marker. Entries are produced by the spreadsheet
// importer and are read-only for the sync pipeline.
type ScheduleEntry struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	ShiftCode    string `json:"shift_code"`
}

// IsOffDay reports whether the date is marked as rest day or leave.
func (e ScheduleEntry) IsOffDay() bool {
	return IsOffMarker(e.ShiftCode)
}
