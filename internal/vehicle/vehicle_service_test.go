package vehicle_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"crewtrack/internal/shared/clock"
	"crewtrack/internal/vehicle"
	vehicleerrors "crewtrack/internal/vehicle/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeVehicleRepository struct {
	withTxFn                 func(tx *sql.Tx) vehicle.Repository
	createFn                 func(ctx context.Context, v *vehicle.Vehicle) error
	findAllFn                func(ctx context.Context) ([]vehicle.Vehicle, error)
	findByIDFn               func(ctx context.Context, id string) (*vehicle.Vehicle, error)
	updateFn                 func(ctx context.Context, v *vehicle.Vehicle) error
	deleteFn                 func(ctx context.Context, id string) error
	createBookingFn          func(ctx context.Context, b *vehicle.VehicleBooking) error
	findBookingByIDFn        func(ctx context.Context, id string) (*vehicle.VehicleBooking, error)
	findBookingsByVehicleFn  func(ctx context.Context, vehicleID string) ([]vehicle.VehicleBooking, error)
	findBookingsByEmployeeFn func(ctx context.Context, employeeID string) ([]vehicle.VehicleBooking, error)
	updateBookingFn          func(ctx context.Context, b *vehicle.VehicleBooking) error
	hasOverlappingBookingFn  func(ctx context.Context, vehicleID string, startsAt, endsAt time.Time, excludeBookingID *string) (bool, error)
}

func (f *fakeVehicleRepository) WithTx(tx *sql.Tx) vehicle.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeVehicleRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	if f.createFn != nil {
		return f.createFn(ctx, v)
	}
	return nil
}

func (f *fakeVehicleRepository) FindAll(ctx context.Context) ([]vehicle.Vehicle, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeVehicleRepository) FindByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVehicleRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, v)
	}
	return nil
}

func (f *fakeVehicleRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeVehicleRepository) CreateBooking(ctx context.Context, b *vehicle.VehicleBooking) error {
	if f.createBookingFn != nil {
		return f.createBookingFn(ctx, b)
	}
	return nil
}

func (f *fakeVehicleRepository) FindBookingByID(ctx context.Context, id string) (*vehicle.VehicleBooking, error) {
	if f.findBookingByIDFn != nil {
		return f.findBookingByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVehicleRepository) FindBookingsByVehicle(ctx context.Context, vehicleID string) ([]vehicle.VehicleBooking, error) {
	if f.findBookingsByVehicleFn != nil {
		return f.findBookingsByVehicleFn(ctx, vehicleID)
	}
	return nil, nil
}

func (f *fakeVehicleRepository) FindBookingsByEmployee(ctx context.Context, employeeID string) ([]vehicle.VehicleBooking, error) {
	if f.findBookingsByEmployeeFn != nil {
		return f.findBookingsByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeVehicleRepository) UpdateBooking(ctx context.Context, b *vehicle.VehicleBooking) error {
	if f.updateBookingFn != nil {
		return f.updateBookingFn(ctx, b)
	}
	return nil
}

func (f *fakeVehicleRepository) HasOverlappingBooking(ctx context.Context, vehicleID string, startsAt, endsAt time.Time, excludeBookingID *string) (bool, error) {
	if f.hasOverlappingBookingFn != nil {
		return f.hasOverlappingBookingFn(ctx, vehicleID, startsAt, endsAt, excludeBookingID)
	}
	return false, nil
}

type vehicleServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service vehicle.Service
	repo    *fakeVehicleRepository
}

func setupVehicleServiceTest(t *testing.T) *vehicleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeVehicleRepository{}
	fixed := clock.Fixed{T: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	svc := vehicle.NewService(db, repo, fixed)

	return &vehicleServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestVehicleService_Create(t *testing.T) {
	ctx := context.Background()

	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	var stored *vehicle.Vehicle
	deps.repo.createFn = func(ctx context.Context, v *vehicle.Vehicle) error {
		stored = v
		return nil
	}

	resp, err := deps.service.Create(ctx, vehicle.CreateVehicleRequest{
		Plate: " b-cw 1234 ",
		Label: "Sprinter crew van",
	})

	assert.NoError(t, err)
	assert.Equal(t, "B-CW 1234", resp.Plate)
	assert.True(t, resp.Active)
	assert.NotNil(t, stored)
}

func TestVehicleService_Create_DuplicatePlate(t *testing.T) {
	ctx := context.Background()

	deps := setupVehicleServiceTest(t)
	defer deps.db.Close()

	deps.repo.createFn = func(ctx context.Context, v *vehicle.Vehicle) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_vehicles_plate"}
	}

	_, err := deps.service.Create(ctx, vehicle.CreateVehicleRequest{Plate: "B-CW 1234", Label: "Van"})

	assert.ErrorIs(t, err, vehicleerrors.ErrPlateAlreadyExists)
}

func TestVehicleService_Book(t *testing.T) {
	ctx := context.Background()
	vehicleID := uuid.New()
	employeeID := uuid.New().String()

	activeVehicle := func(ctx context.Context, id string) (*vehicle.Vehicle, error) {
		return &vehicle.Vehicle{ID: vehicleID, Plate: "B-CW 1234", Active: true}, nil
	}

	t.Run("success", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = activeVehicle
		var stored *vehicle.VehicleBooking
		deps.repo.createBookingFn = func(ctx context.Context, b *vehicle.VehicleBooking) error {
			stored = b
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Book(ctx, employeeID, vehicle.CreateBookingRequest{
			VehicleID: vehicleID.String(),
			StartsAt:  "2025-06-11T07:00:00Z",
			EndsAt:    "2025-06-11T16:00:00Z",
		})

		assert.NoError(t, err)
		assert.Equal(t, vehicleID.String(), resp.VehicleID)
		assert.NotNil(t, stored)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap rejected", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = activeVehicle
		deps.repo.hasOverlappingBookingFn = func(ctx context.Context, vid string, startsAt, endsAt time.Time, exclude *string) (bool, error) {
			return true, nil
		}
		created := false
		deps.repo.createBookingFn = func(ctx context.Context, b *vehicle.VehicleBooking) error {
			created = true
			return nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Book(ctx, employeeID, vehicle.CreateBookingRequest{
			VehicleID: vehicleID.String(),
			StartsAt:  "2025-06-11T07:00:00Z",
			EndsAt:    "2025-06-11T16:00:00Z",
		})

		assert.ErrorIs(t, err, vehicleerrors.ErrBookingOverlap)
		assert.False(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("inactive vehicle rejected", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*vehicle.Vehicle, error) {
			return &vehicle.Vehicle{ID: vehicleID, Active: false}, nil
		}

		_, err := deps.service.Book(ctx, employeeID, vehicle.CreateBookingRequest{
			VehicleID: vehicleID.String(),
			StartsAt:  "2025-06-11T07:00:00Z",
			EndsAt:    "2025-06-11T16:00:00Z",
		})

		assert.ErrorIs(t, err, vehicleerrors.ErrVehicleInactive)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Book(ctx, employeeID, vehicle.CreateBookingRequest{
			VehicleID: vehicleID.String(),
			StartsAt:  "2025-06-11T16:00:00Z",
			EndsAt:    "2025-06-11T07:00:00Z",
		})

		assert.ErrorIs(t, err, vehicleerrors.ErrInvalidBookingPeriod)
	})
}

func TestVehicleService_CloseBooking(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		start := 120500
		deps.repo.findBookingByIDFn = func(ctx context.Context, id string) (*vehicle.VehicleBooking, error) {
			return &vehicle.VehicleBooking{
				ID:            bookingID,
				VehicleID:     uuid.New(),
				EmployeeID:    uuid.New(),
				StartsAt:      time.Date(2025, 6, 11, 7, 0, 0, 0, time.UTC),
				EndsAt:        time.Date(2025, 6, 11, 16, 0, 0, 0, time.UTC),
				OdometerStart: &start,
			}, nil
		}

		resp, err := deps.service.CloseBooking(ctx, bookingID.String(), vehicle.CloseBookingRequest{OdometerEnd: 120654})

		assert.NoError(t, err)
		if assert.NotNil(t, resp.OdometerEnd) {
			assert.Equal(t, 120654, *resp.OdometerEnd)
		}
	})

	t.Run("already closed", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		end := 120654
		deps.repo.findBookingByIDFn = func(ctx context.Context, id string) (*vehicle.VehicleBooking, error) {
			return &vehicle.VehicleBooking{ID: bookingID, OdometerEnd: &end}, nil
		}

		_, err := deps.service.CloseBooking(ctx, bookingID.String(), vehicle.CloseBookingRequest{OdometerEnd: 120700})

		assert.ErrorIs(t, err, vehicleerrors.ErrBookingAlreadyClosed)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupVehicleServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.CloseBooking(ctx, uuid.New().String(), vehicle.CloseBookingRequest{OdometerEnd: 1})

		assert.ErrorIs(t, err, vehicleerrors.ErrBookingNotFound)
	})
}
