package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Create runs on the bound transaction when one is set.
	Create(ctx context.Context, e *TimeEntry) error
	// FindByEmployeeAndDate runs on the bound transaction when one is set, so
	// the one-entry-per-day guard and the insert see the same snapshot.
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*TimeEntry, error)
	FindAll(ctx context.Context) ([]TimeEntry, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]TimeEntry, error)
	// Update runs on the bound transaction when one is set.
	Update(ctx context.Context, e *TimeEntry) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	query := `
INSERT INTO time_entries
	(id, employee_id, project_id, entry_date, clock_in, clock_out, status, source, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
`
	run, err := r.runner()
	if err != nil {
		return err
	}
	_, err = run.ExecContext(ctx, query,
		e.ID, e.EmployeeID, e.ProjectID, e.EntryDate.Format("2006-01-02"),
		e.ClockIn, e.ClockOut, e.Status, e.Source, e.Notes,
	)
	return err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*TimeEntry, error) {
	query := `
SELECT id, employee_id, project_id, entry_date, clock_in, clock_out, status, source, notes
FROM time_entries
WHERE employee_id = $1 AND entry_date = $2 AND deleted_at IS NULL
`
	run, err := r.runner()
	if err != nil {
		return nil, err
	}

	var e TimeEntry
	err = run.QueryRowContext(ctx, query, employeeID, date.Format("2006-01-02")).Scan(
		&e.ID, &e.EmployeeID, &e.ProjectID, &e.EntryDate,
		&e.ClockIn, &e.ClockOut, &e.Status, &e.Source, &e.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindAll(ctx context.Context) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("entry_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("entry_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	query := `
UPDATE time_entries
SET project_id = $2, clock_out = $3, status = $4, notes = $5, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
`
	run, err := r.runner()
	if err != nil {
		return err
	}
	_, err = run.ExecContext(ctx, query,
		e.ID, e.ProjectID, e.ClockOut, e.Status, e.Notes,
	)
	return err
}

// runner routes the daily-entry guard and the punch writes through the
// service transaction when one is bound, falling back to the pool for
// standalone calls.
func (r *repository) runner() (interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, error) {
	if r.tx != nil {
		return r.tx, nil
	}
	db, err := r.db.DB()
	if err != nil {
		return nil, err
	}
	return db, nil
}
