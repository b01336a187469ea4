package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"crewtrack/internal/shared/clock"
	"crewtrack/internal/shared/workday"
	timeentryerrors "crewtrack/internal/timeentry/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"

	SourceClock  = "CLOCK"
	SourceManual = "MANUAL"
)

// Crews start at 07:00; punches after 07:15 count as late.
const lateCutoffMinutes = 7*60 + 15

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (TimeEntryResponse, error)
	CreateManual(ctx context.Context, req CreateManualRequest) (TimeEntryResponse, error)
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]TimeEntryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{db: db, repo: repo, clk: clk, logger: l}
}

func (s *service) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (TimeEntryResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clk.Now()
	today := workday.Truncate(now)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("clock in lookup failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if existing != nil {
		s.logger.Warn("clock in rejected, already punched",
			zap.String("employee_id", employeeID),
		)
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedIn
	}

	status := StatusPresent
	if now.Hour()*60+now.Minute() > lateCutoffMinutes {
		status = StatusLate
	}

	e := &TimeEntry{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		ProjectID:  uuidPtr(req.ProjectID),
		EntryDate:  today,
		ClockIn:    now,
		Status:     status,
		Source:     SourceClock,
		Notes:      req.Notes,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("clock in persist failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("clock in commit failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock in success",
		zap.String("employee_id", employeeID),
		zap.String("status", status),
	)
	return mapToResponse(*e), nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string, req ClockOutRequest) (TimeEntryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clk.Now()
	today := workday.Truncate(now)

	e, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNotClockedIn
		}
		s.logger.Error("clock out lookup failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if e.ClockOut != nil {
		s.logger.Warn("clock out rejected, already punched",
			zap.String("employee_id", employeeID),
		)
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedOut
	}

	e.ClockOut = &now
	if req.Notes != nil {
		e.Notes = req.Notes
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("clock out persist failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("clock out commit failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}

	s.logger.Info("clock out success", zap.String("employee_id", employeeID))
	return mapToResponse(*e), nil
}

func (s *service) CreateManual(ctx context.Context, req CreateManualRequest) (TimeEntryResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidEmployeeID
	}
	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidDateFormat
	}
	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeFormat
	}
	clockOut, err := time.Parse(time.RFC3339, req.ClockOut)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeFormat
	}
	if !clockOut.After(clockIn) {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimeRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("manual entry begin tx failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	existing, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, entryDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("manual entry lookup failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if existing != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedIn
	}

	e := &TimeEntry{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		ProjectID:  uuidPtr(req.ProjectID),
		EntryDate:  workday.Truncate(entryDate),
		ClockIn:    clockIn,
		ClockOut:   &clockOut,
		Status:     StatusPresent,
		Source:     SourceManual,
		Notes:      req.Notes,
	}

	if err := qtx.Create(ctx, e); err != nil {
		s.logger.Error("manual entry persist failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("manual entry commit failed", zap.Error(err))
		return TimeEntryResponse{}, err
	}

	s.logger.Info("manual entry created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("entry_date", req.EntryDate),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]TimeEntryResponse, error) {
	var (
		rows []TimeEntry
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAll(ctx)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, timeentryerrors.ErrInvalidEmployeeID
		}
		rows, err = s.repo.FindAllByEmployee(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]TimeEntryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:         e.ID.String(),
		EmployeeID: e.EmployeeID.String(),
		EntryDate:  e.EntryDate.Format("2006-01-02"),
		ClockIn:    e.ClockIn.Format(time.RFC3339),
		Status:     e.Status,
		Source:     e.Source,
		Notes:      e.Notes,
	}
	if e.ProjectID != nil {
		v := e.ProjectID.String()
		resp.ProjectID = &v
	}
	if e.ClockOut != nil {
		v := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if e.Employee != nil {
		resp.EmployeeName = e.Employee.FullName
	}
	return resp
}

func uuidPtr(v *string) *uuid.UUID {
	if v == nil {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil
	}
	return &id
}
