package timeentry_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"crewtrack/internal/shared/clock"
	"crewtrack/internal/timeentry"
	timeentryerrors "crewtrack/internal/timeentry/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTimeEntryRepository struct {
	withTxFn                func(tx *sql.Tx) timeentry.Repository
	createFn                func(ctx context.Context, e *timeentry.TimeEntry) error
	findByEmployeeAndDateFn func(ctx context.Context, employeeID string, date time.Time) (*timeentry.TimeEntry, error)
	findAllFn               func(ctx context.Context) ([]timeentry.TimeEntry, error)
	findAllByEmployeeFn     func(ctx context.Context, employeeID string) ([]timeentry.TimeEntry, error)
	updateFn                func(ctx context.Context, e *timeentry.TimeEntry) error
}

func (f *fakeTimeEntryRepository) WithTx(tx *sql.Tx) timeentry.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeTimeEntryRepository) Create(ctx context.Context, e *timeentry.TimeEntry) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeTimeEntryRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*timeentry.TimeEntry, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTimeEntryRepository) FindAll(ctx context.Context) ([]timeentry.TimeEntry, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeTimeEntryRepository) FindAllByEmployee(ctx context.Context, employeeID string) ([]timeentry.TimeEntry, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeTimeEntryRepository) Update(ctx context.Context, e *timeentry.TimeEntry) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

type timeEntryServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service timeentry.Service
	repo    *fakeTimeEntryRepository
}

func setupTimeEntryServiceTest(t *testing.T, now time.Time) *timeEntryServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeTimeEntryRepository{}
	svc := timeentry.NewService(db, repo, clock.Fixed{T: now})

	return &timeEntryServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestTimeEntryService_ClockIn(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("on time punch", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, time.Date(2025, 6, 2, 6, 55, 0, 0, time.UTC))
		defer deps.db.Close()

		var stored *timeentry.TimeEntry
		deps.repo.createFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
			stored = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.ClockIn(ctx, employeeID, timeentry.ClockInRequest{})

		assert.NoError(t, err)
		assert.Equal(t, timeentry.StatusPresent, resp.Status)
		assert.Equal(t, timeentry.SourceClock, resp.Source)
		assert.Equal(t, "2025-06-02", resp.EntryDate)
		if assert.NotNil(t, stored) {
			assert.Nil(t, stored.ClockOut)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("late punch", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC))
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.ClockIn(ctx, employeeID, timeentry.ClockInRequest{})

		assert.NoError(t, err)
		assert.Equal(t, timeentry.StatusLate, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("double punch rejected", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
		defer deps.db.Close()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*timeentry.TimeEntry, error) {
			return &timeentry.TimeEntry{ID: uuid.New()}, nil
		}
		created := false
		deps.repo.createFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
			created = true
			return nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.ClockIn(ctx, employeeID, timeentry.ClockInRequest{})

		assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyClockedIn)
		assert.False(t, created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimeEntryService_ClockOut(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	now := time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*timeentry.TimeEntry, error) {
			return &timeentry.TimeEntry{
				ID:         uuid.New(),
				EmployeeID: uuid.MustParse(employeeID),
				EntryDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
				ClockIn:    time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC),
				Status:     timeentry.StatusPresent,
				Source:     timeentry.SourceClock,
			}, nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.ClockOut(ctx, employeeID, timeentry.ClockOutRequest{})

		assert.NoError(t, err)
		if assert.NotNil(t, resp.ClockOut) {
			assert.Equal(t, now.Format(time.RFC3339), *resp.ClockOut)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no open punch", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.ClockOut(ctx, employeeID, timeentry.ClockOutRequest{})

		assert.ErrorIs(t, err, timeentryerrors.ErrNotClockedIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already clocked out", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		out := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*timeentry.TimeEntry, error) {
			return &timeentry.TimeEntry{ID: uuid.New(), ClockOut: &out}, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.ClockOut(ctx, employeeID, timeentry.ClockOutRequest{})

		assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyClockedOut)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimeEntryService_CreateManual(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	now := time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		var stored *timeentry.TimeEntry
		deps.repo.createFn = func(ctx context.Context, e *timeentry.TimeEntry) error {
			stored = e
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.CreateManual(ctx, timeentry.CreateManualRequest{
			EmployeeID: employeeID,
			EntryDate:  "2025-06-02",
			ClockIn:    "2025-06-02T07:00:00Z",
			ClockOut:   "2025-06-02T15:30:00Z",
		})

		assert.NoError(t, err)
		assert.Equal(t, timeentry.SourceManual, resp.Source)
		assert.NotNil(t, resp.ClockOut)
		if assert.NotNil(t, stored) {
			assert.Equal(t, timeentry.StatusPresent, stored.Status)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("inverted times rejected", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		_, err := deps.service.CreateManual(ctx, timeentry.CreateManualRequest{
			EmployeeID: employeeID,
			EntryDate:  "2025-06-02",
			ClockIn:    "2025-06-02T15:30:00Z",
			ClockOut:   "2025-06-02T07:00:00Z",
		})

		assert.ErrorIs(t, err, timeentryerrors.ErrInvalidTimeRange)
	})

	t.Run("duplicate day rejected", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, eid string, date time.Time) (*timeentry.TimeEntry, error) {
			return &timeentry.TimeEntry{ID: uuid.New()}, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.CreateManual(ctx, timeentry.CreateManualRequest{
			EmployeeID: employeeID,
			EntryDate:  "2025-06-02",
			ClockIn:    "2025-06-02T07:00:00Z",
			ClockOut:   "2025-06-02T15:30:00Z",
		})

		assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyClockedIn)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestTimeEntryService_GetAll_Visibility(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	now := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	t.Run("self scope", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		allCalled := false
		deps.repo.findAllFn = func(ctx context.Context) ([]timeentry.TimeEntry, error) {
			allCalled = true
			return nil, nil
		}
		deps.repo.findAllByEmployeeFn = func(ctx context.Context, eid string) ([]timeentry.TimeEntry, error) {
			assert.Equal(t, actorID, eid)
			return []timeentry.TimeEntry{{ID: uuid.New(), EmployeeID: uuid.MustParse(actorID), EntryDate: now, ClockIn: now}}, nil
		}

		resp, err := deps.service.GetAll(ctx, actorID, false)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.False(t, allCalled)
	})

	t.Run("admin scope", func(t *testing.T) {
		deps := setupTimeEntryServiceTest(t, now)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]timeentry.TimeEntry, error) {
			return []timeentry.TimeEntry{
				{ID: uuid.New(), EmployeeID: uuid.New(), EntryDate: now, ClockIn: now},
				{ID: uuid.New(), EmployeeID: uuid.New(), EntryDate: now, ClockIn: now},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, actorID, true)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
