package timeentry

type ClockInRequest struct {
	ProjectID *string `json:"project_id" binding:"omitempty,uuid"`
	Notes     *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

// CreateManualRequest is a foreman booking with explicit times, used for
// crews without a terminal on site.
type CreateManualRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	ProjectID  *string `json:"project_id" binding:"omitempty,uuid"`
	EntryDate  string  `json:"entry_date" binding:"required"`
	ClockIn    string  `json:"clock_in" binding:"required"`
	ClockOut   string  `json:"clock_out" binding:"required"`
	Notes      *string `json:"notes"`
}

type TimeEntryResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
	EntryDate    string  `json:"entry_date"`
	ClockIn      string  `json:"clock_in"`
	ClockOut     *string `json:"clock_out,omitempty"`
	Status       string  `json:"status"`
	Source       string  `json:"source"`
	Notes        *string `json:"notes,omitempty"`
}
