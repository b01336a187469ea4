package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusPatch carries the decision fields written by the PENDING
// compare-and-set.
type StatusPatch struct {
	Status       string
	ReviewedBy   uuid.UUID
	ReviewedAt   time.Time
	AdminComment *string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRequest(ctx context.Context, l *LeaveRequest) error
	FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllRequests(ctx context.Context) ([]LeaveRequest, error)
	// TransitionFromPending applies patch iff the request is still PENDING
	// and reports whether a row was updated. Runs on the bound transaction
	// when one is set, so two concurrent admin decisions cannot both win.
	TransitionFromPending(ctx context.Context, id string, patch StatusPatch) (bool, error)
	GetBalance(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	// AddUsage upserts the current-year ledger row and increments used_days.
	// defaultTotal seeds total_days when the row does not exist yet.
	AddUsage(ctx context.Context, employeeID string, year, days, defaultTotal int) error
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

func (r *repository) CreateRequest(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindRequestsByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllRequests(ctx context.Context) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) TransitionFromPending(ctx context.Context, id string, patch StatusPatch) (bool, error) {
	query := `
UPDATE leave_requests
SET
	status = $2,
	reviewed_by = $3,
	reviewed_at = $4,
	admin_comment = $5,
	updated_at = now()
WHERE id = $1 AND status = $6
`
	res, err := r.execer().ExecContext(
		ctx, query,
		id, patch.Status, patch.ReviewedBy, patch.ReviewedAt, patch.AdminComment,
		StatusPending,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) GetBalance(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) AddUsage(ctx context.Context, employeeID string, year, days, defaultTotal int) error {
	query := `
INSERT INTO leave_balances (employee_id, year, total_days, used_days, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (employee_id, year) DO UPDATE
SET used_days = leave_balances.used_days + EXCLUDED.used_days, updated_at = now()
`
	_, err := r.execer().ExecContext(ctx, query, employeeID, year, defaultTotal, days)
	return err
}

// execer routes state transitions through the service transaction when one
// is bound, falling back to the pool for standalone calls.
func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	db, err := r.db.DB()
	if err != nil {
		return failingExecer{err: err}
	}
	return db
}

type failingExecer struct{ err error }

func (f failingExecer) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, f.err
}
