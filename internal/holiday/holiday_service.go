package holiday

import (
	"context"
	"errors"
	"strings"
	"time"

	holidayerrors "crewtrack/internal/holiday/errors"
	"crewtrack/internal/shared/workday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error
	// HolidaysBetween returns the holiday dates in [from, to] keyed by
	// workday.Key. Satisfies the calendar lookup the leave module needs.
	HolidaysBetween(ctx context.Context, from, to time.Time) (map[string]bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		s.logger.Warn("create holiday invalid date", zap.String("date", req.Date))
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	region := req.Region
	if region == "" {
		region = "DE"
	}

	h := &Holiday{
		ID:     uuid.New(),
		Name:   req.Name,
		Date:   date,
		Region: region,
	}

	if err := s.repo.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("holiday created",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)
	return mapToResponse(*h), nil
}

func (s *service) GetByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}
	return nil
}

func (s *service) HolidaysBetween(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	holidays, err := s.repo.FindBetween(ctx, workday.Truncate(from), workday.Truncate(to))
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[workday.Key(h.Date)] = true
	}
	return set, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return holidayerrors.ErrHolidayAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return holidayerrors.ErrHolidayAlreadyExists
	}

	return err
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:     h.ID.String(),
		Name:   h.Name,
		Date:   h.Date.Format("2006-01-02"),
		Region: h.Region,
	}
}
