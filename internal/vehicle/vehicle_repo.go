package vehicle

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=vehicle_repo.go -destination=mock/vehicle_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, v *Vehicle) error
	FindAll(ctx context.Context) ([]Vehicle, error)
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	Update(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id string) error
	// CreateBooking runs on the bound transaction when one is set.
	CreateBooking(ctx context.Context, b *VehicleBooking) error
	FindBookingByID(ctx context.Context, id string) (*VehicleBooking, error)
	FindBookingsByVehicle(ctx context.Context, vehicleID string) ([]VehicleBooking, error)
	FindBookingsByEmployee(ctx context.Context, employeeID string) ([]VehicleBooking, error)
	UpdateBooking(ctx context.Context, b *VehicleBooking) error
	// HasOverlappingBooking reports whether the vehicle already has a booking
	// intersecting [startsAt, endsAt). excludeBookingID skips the booking
	// being rescheduled. Runs on the bound transaction when one is set, so
	// the check and the subsequent insert see the same snapshot.
	HasOverlappingBooking(ctx context.Context, vehicleID string, startsAt, endsAt time.Time, excludeBookingID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, v *Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Vehicle, error) {
	var vehicles []Vehicle
	err := r.db.WithContext(ctx).
		Order("plate ASC").
		Find(&vehicles).Error
	return vehicles, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	var v Vehicle
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) Update(ctx context.Context, v *Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateBooking(ctx context.Context, b *VehicleBooking) error {
	query := `
INSERT INTO vehicle_bookings
	(id, vehicle_id, employee_id, project_id, starts_at, ends_at, odometer_start, odometer_end, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	run, err := r.runner()
	if err != nil {
		return err
	}
	_, err = run.ExecContext(ctx, query,
		b.ID, b.VehicleID, b.EmployeeID, b.ProjectID, b.StartsAt, b.EndsAt,
		b.OdometerStart, b.OdometerEnd, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *repository) FindBookingByID(ctx context.Context, id string) (*VehicleBooking, error) {
	var b VehicleBooking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindBookingsByVehicle(ctx context.Context, vehicleID string) ([]VehicleBooking, error) {
	var rows []VehicleBooking
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("starts_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindBookingsByEmployee(ctx context.Context, employeeID string) ([]VehicleBooking, error) {
	var rows []VehicleBooking
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("starts_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateBooking(ctx context.Context, b *VehicleBooking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) HasOverlappingBooking(ctx context.Context, vehicleID string, startsAt, endsAt time.Time, excludeBookingID *string) (bool, error) {
	query := `
SELECT count(*)
FROM vehicle_bookings
WHERE vehicle_id = $1 AND starts_at < $2 AND ends_at > $3
`
	args := []any{vehicleID, endsAt, startsAt}
	if excludeBookingID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeBookingID)
	}

	run, err := r.runner()
	if err != nil {
		return false, err
	}
	var count int64
	if err := run.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// runner routes the overlap guard and the booking insert through the service
// transaction when one is bound, falling back to the pool for standalone
// calls.
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
