package holiday_test

import (
	"context"
	"testing"
	"time"

	"crewtrack/internal/holiday"
	holidayerrors "crewtrack/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeHolidayRepository struct {
	createFn      func(ctx context.Context, h *holiday.Holiday) error
	findBetweenFn func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error)
	findByYearFn  func(ctx context.Context, year int) ([]holiday.Holiday, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeHolidayRepository) Create(ctx context.Context, h *holiday.Holiday) error {
	if f.createFn != nil {
		return f.createFn(ctx, h)
	}
	return nil
}

func (f *fakeHolidayRepository) FindBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	if f.findBetweenFn != nil {
		return f.findBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) FindByYear(ctx context.Context, year int) ([]holiday.Holiday, error) {
	if f.findByYearFn != nil {
		return f.findByYearFn(ctx, year)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestHolidayService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults region", func(t *testing.T) {
		var stored *holiday.Holiday
		repo := &fakeHolidayRepository{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				stored = h
				return nil
			},
		}
		svc := holiday.NewService(repo)

		resp, err := svc.Create(ctx, holiday.CreateHolidayRequest{
			Name: "Tag der Deutschen Einheit",
			Date: "2025-10-03",
		})

		assert.NoError(t, err)
		assert.Equal(t, "2025-10-03", resp.Date)
		assert.Equal(t, "DE", resp.Region)
		if assert.NotNil(t, stored) {
			assert.Equal(t, "DE", stored.Region)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		svc := holiday.NewService(&fakeHolidayRepository{})

		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{Name: "X", Date: "03.10.2025"})

		assert.ErrorIs(t, err, holidayerrors.ErrInvalidDateFormat)
	})

	t.Run("duplicate date and region", func(t *testing.T) {
		repo := &fakeHolidayRepository{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_holidays_date_region"}
			},
		}
		svc := holiday.NewService(repo)

		_, err := svc.Create(ctx, holiday.CreateHolidayRequest{Name: "X", Date: "2025-10-03"})

		assert.ErrorIs(t, err, holidayerrors.ErrHolidayAlreadyExists)
	})
}

func TestHolidayService_HolidaysBetween(t *testing.T) {
	ctx := context.Background()

	repo := &fakeHolidayRepository{
		findBetweenFn: func(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
			return []holiday.Holiday{
				{ID: uuid.New(), Name: "Christi Himmelfahrt", Date: time.Date(2025, 5, 29, 0, 0, 0, 0, time.UTC)},
				{ID: uuid.New(), Name: "Pfingstmontag", Date: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := holiday.NewService(repo)

	set, err := svc.HolidaysBetween(ctx,
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	)

	assert.NoError(t, err)
	assert.Len(t, set, 2)
	assert.True(t, set["2025-05-29"])
	assert.True(t, set["2025-06-09"])
}

func TestHolidayService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo := &fakeHolidayRepository{
			deleteFn: func(ctx context.Context, id string) error {
				return gorm.ErrRecordNotFound
			},
		}
		svc := holiday.NewService(repo)

		err := svc.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, holidayerrors.ErrHolidayNotFound)
	})

	t.Run("success", func(t *testing.T) {
		svc := holiday.NewService(&fakeHolidayRepository{})

		assert.NoError(t, svc.Delete(ctx, uuid.New().String()))
	})
}
