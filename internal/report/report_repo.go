package report

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// TimesheetRow is one punched or booked day, joined with the employee and
// project master data the export needs.
type TimesheetRow struct {
	EmployeeName   string
	EmployeeNumber string
	EntryDate      time.Time
	ClockIn        time.Time
	ClockOut       *time.Time
	ProjectNumber  *string
	Status         string
	Source         string
}

type LeaveOverviewRow struct {
	EmployeeName   string
	EmployeeNumber string
	TotalDays      int
	UsedDays       int
	PendingCount   int
	ApprovedCount  int
	RejectedCount  int
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	TimesheetRows(ctx context.Context, from, to time.Time) ([]TimesheetRow, error)
	TimesheetRowsByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]TimesheetRow, error)
	LeaveOverviewRows(ctx context.Context, year int) ([]LeaveOverviewRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TimesheetRows(ctx context.Context, from, to time.Time) ([]TimesheetRow, error) {
	var rows []TimesheetRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
	e.full_name        AS employee_name,
	e.employee_number  AS employee_number,
	t.entry_date       AS entry_date,
	t.clock_in         AS clock_in,
	t.clock_out        AS clock_out,
	p.number           AS project_number,
	t.status           AS status,
	t.source           AS source
FROM time_entries t
JOIN employees e ON e.id = t.employee_id
LEFT JOIN projects p ON p.id = t.project_id
WHERE t.entry_date >= ? AND t.entry_date < ?
	AND t.deleted_at IS NULL
ORDER BY e.full_name, t.entry_date
`, from, to).Scan(&rows).Error
	return rows, err
}

func (r *repository) TimesheetRowsByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]TimesheetRow, error) {
	var rows []TimesheetRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
	e.full_name        AS employee_name,
	e.employee_number  AS employee_number,
	t.entry_date       AS entry_date,
	t.clock_in         AS clock_in,
	t.clock_out        AS clock_out,
	p.number           AS project_number,
	t.status           AS status,
	t.source           AS source
FROM time_entries t
JOIN employees e ON e.id = t.employee_id
LEFT JOIN projects p ON p.id = t.project_id
WHERE t.employee_id = ?
	AND t.entry_date >= ? AND t.entry_date < ?
	AND t.deleted_at IS NULL
ORDER BY t.entry_date
`, employeeID, from, to).Scan(&rows).Error
	return rows, err
}

func (r *repository) LeaveOverviewRows(ctx context.Context, year int) ([]LeaveOverviewRow, error) {
	var rows []LeaveOverviewRow
	err := r.db.WithContext(ctx).Raw(`
SELECT
	e.full_name                    AS employee_name,
	e.employee_number              AS employee_number,
	COALESCE(b.total_days, 0)      AS total_days,
	COALESCE(b.used_days, 0)       AS used_days,
	COUNT(*) FILTER (WHERE l.status = 'PENDING')  AS pending_count,
	COUNT(*) FILTER (WHERE l.status = 'APPROVED') AS approved_count,
	COUNT(*) FILTER (WHERE l.status = 'REJECTED') AS rejected_count
FROM employees e
LEFT JOIN leave_balances b
	ON b.employee_id = e.id AND b.year = ?
LEFT JOIN leave_requests l
	ON l.employee_id = e.id AND EXTRACT(YEAR FROM l.start_date) = ?
GROUP BY e.full_name, e.employee_number, b.total_days, b.used_days
ORDER BY e.full_name
`, year, year).Scan(&rows).Error
	return rows, err
}
