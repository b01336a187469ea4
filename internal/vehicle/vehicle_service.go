package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"crewtrack/internal/shared/clock"
	vehicleerrors "crewtrack/internal/vehicle/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=vehicle_service.go -destination=mock/vehicle_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error)
	GetAll(ctx context.Context) ([]VehicleResponse, error)
	GetByID(ctx context.Context, id string) (VehicleResponse, error)
	Update(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error)
	Delete(ctx context.Context, id string) error
	Book(ctx context.Context, employeeID string, req CreateBookingRequest) (BookingResponse, error)
	CloseBooking(ctx context.Context, id string, req CloseBookingRequest) (BookingResponse, error)
	GetBookingsByVehicle(ctx context.Context, vehicleID string) ([]BookingResponse, error)
	GetMyBookings(ctx context.Context, employeeID string) ([]BookingResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("vehicle.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vehicle.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{db: db, repo: repo, clk: clk, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateVehicleRequest) (VehicleResponse, error) {
	v := &Vehicle{
		ID:     uuid.New(),
		Plate:  strings.ToUpper(strings.TrimSpace(req.Plate)),
		Label:  req.Label,
		Active: true,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.logger.Error("create vehicle persist failed", zap.Error(err))
		return VehicleResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("vehicle created",
		zap.String("vehicle_id", v.ID.String()),
		zap.String("plate", v.Plate),
	)
	return mapToResponse(*v), nil
}

func (s *service) GetAll(ctx context.Context) ([]VehicleResponse, error) {
	vehicles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		res[i] = mapToResponse(v)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (VehicleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return VehicleResponse{}, vehicleerrors.ErrInvalidVehicleID
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return VehicleResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*v), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateVehicleRequest) (VehicleResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return VehicleResponse{}, mapRepositoryError(err)
	}

	v.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	v.Label = req.Label
	if req.Active != nil {
		v.Active = *req.Active
	}

	if err := s.repo.Update(ctx, v); err != nil {
		s.logger.Error("update vehicle persist failed", zap.Error(err))
		return VehicleResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("vehicle updated", zap.String("vehicle_id", id))
	return mapToResponse(*v), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete vehicle failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("vehicle deleted", zap.String("vehicle_id", id))
	return nil
}

// Book reserves a vehicle for a period. The overlap check and the insert
// share one transaction so two crews cannot book the same van at once.
func (s *service) Book(ctx context.Context, employeeID string, req CreateBookingRequest) (BookingResponse, error) {
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BookingResponse{}, vehicleerrors.ErrInvalidEmployeeID
	}
	vehicleUUID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return BookingResponse{}, vehicleerrors.ErrInvalidVehicleID
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return BookingResponse{}, vehicleerrors.ErrInvalidTimeFormat
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return BookingResponse{}, vehicleerrors.ErrInvalidTimeFormat
	}
	if !endsAt.After(startsAt) {
		return BookingResponse{}, vehicleerrors.ErrInvalidBookingPeriod
	}

	v, err := s.repo.FindByID(ctx, req.VehicleID)
	if err != nil {
		return BookingResponse{}, mapRepositoryError(err)
	}
	if !v.Active {
		return BookingResponse{}, vehicleerrors.ErrVehicleInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("book vehicle begin tx failed", zap.Error(err))
		return BookingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	overlaps, err := qtx.HasOverlappingBooking(ctx, req.VehicleID, startsAt, endsAt, nil)
	if err != nil {
		s.logger.Error("book vehicle overlap check failed", zap.Error(err))
		return BookingResponse{}, err
	}
	if overlaps {
		s.logger.Warn("book vehicle rejected, period taken",
			zap.String("vehicle_id", req.VehicleID),
			zap.Time("starts_at", startsAt),
			zap.Time("ends_at", endsAt),
		)
		return BookingResponse{}, vehicleerrors.ErrBookingOverlap
	}

	now := s.clk.Now()
	b := &VehicleBooking{
		ID:            uuid.New(),
		VehicleID:     vehicleUUID,
		EmployeeID:    employeeUUID,
		ProjectID:     uuidPtr(req.ProjectID),
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		OdometerStart: req.OdometerStart,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := qtx.CreateBooking(ctx, b); err != nil {
		s.logger.Error("book vehicle persist failed", zap.Error(err))
		return BookingResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("book vehicle commit failed", zap.Error(err))
		return BookingResponse{}, err
	}

	s.logger.Info("vehicle booked",
		zap.String("vehicle_id", req.VehicleID),
		zap.String("booking_id", b.ID.String()),
	)
	return mapBookingToResponse(*b), nil
}

func (s *service) CloseBooking(ctx context.Context, id string, req CloseBookingRequest) (BookingResponse, error) {
	b, err := s.repo.FindBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingResponse{}, vehicleerrors.ErrBookingNotFound
		}
		return BookingResponse{}, err
	}
	if b.OdometerEnd != nil {
		return BookingResponse{}, vehicleerrors.ErrBookingAlreadyClosed
	}

	b.OdometerEnd = &req.OdometerEnd
	b.UpdatedAt = s.clk.Now()

	if err := s.repo.UpdateBooking(ctx, b); err != nil {
		s.logger.Error("close booking persist failed", zap.Error(err))
		return BookingResponse{}, err
	}

	s.logger.Info("booking closed", zap.String("booking_id", id))
	return mapBookingToResponse(*b), nil
}

func (s *service) GetBookingsByVehicle(ctx context.Context, vehicleID string) ([]BookingResponse, error) {
	if _, err := uuid.Parse(vehicleID); err != nil {
		return nil, vehicleerrors.ErrInvalidVehicleID
	}
	rows, err := s.repo.FindBookingsByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return mapBookingsToResponse(rows), nil
}

func (s *service) GetMyBookings(ctx context.Context, employeeID string) ([]BookingResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, vehicleerrors.ErrInvalidEmployeeID
	}
	rows, err := s.repo.FindBookingsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapBookingsToResponse(rows), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vehicleerrors.ErrVehicleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return vehicleerrors.ErrPlateAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return vehicleerrors.ErrPlateAlreadyExists
	}

	return err
}

func mapToResponse(v Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:     v.ID.String(),
		Plate:  v.Plate,
		Label:  v.Label,
		Active: v.Active,
	}
}

func mapBookingToResponse(b VehicleBooking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		VehicleID:     b.VehicleID.String(),
		EmployeeID:    b.EmployeeID.String(),
		StartsAt:      b.StartsAt.Format(time.RFC3339),
		EndsAt:        b.EndsAt.Format(time.RFC3339),
		OdometerStart: b.OdometerStart,
		OdometerEnd:   b.OdometerEnd,
		Notes:         b.Notes,
	}
	if b.ProjectID != nil {
		v := b.ProjectID.String()
		resp.ProjectID = &v
	}
	return resp
}

func mapBookingsToResponse(rows []VehicleBooking) []BookingResponse {
	res := make([]BookingResponse, len(rows))
	for i, b := range rows {
		res[i] = mapBookingToResponse(b)
	}
	return res
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
