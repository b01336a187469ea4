package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"crewtrack/internal/events"
	leaveerrors "crewtrack/internal/leave/errors"
	"crewtrack/internal/messaging/kafka"
	"crewtrack/internal/shared/clock"
	"crewtrack/internal/shared/contextutil"
	"crewtrack/internal/shared/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"

	TypeStandard = "STANDARD"
	TypeSpecial  = "SPECIAL"
	TypeUnpaid   = "UNPAID"
)

// HolidayCalendar is the lookup the working-day count needs. Keys are
// workday.Key dates.
type HolidayCalendar interface {
	HolidaysBetween(ctx context.Context, from, to time.Time) (map[string]bool, error)
}

// Config is the leave accounting policy. EnforceBalance turns the
// balance-overrun warning into a hard rejection at submission time.
type Config struct {
	DefaultAnnualDays int
	EnforceBalance    bool
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	GetAll(ctx context.Context) ([]LeaveRequestResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	Approve(ctx context.Context, reviewerID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, reviewerID, id, adminComment string) (LeaveRequestResponse, error)
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	holidays HolidayCalendar
	outbox   kafka.OutboxRepository
	clk      clock.Clock
	cfg      Config
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	holidays HolidayCalendar,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, holidays, nil, clock.System(), cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	holidays HolidayCalendar,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if cfg.DefaultAnnualDays <= 0 {
		cfg.DefaultAnnualDays = 30
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{
		db:       db,
		repo:     repo,
		holidays: holidays,
		outbox:   outboxRepo,
		clk:      clk,
		cfg:      cfg,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidDateRange
	}

	holidays, err := s.holidays.HolidaysBetween(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("create leave holiday lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	workingDays := workday.Count(startDate, endDate, func(d time.Time) bool {
		return holidays[workday.Key(d)]
	})
	if workingDays == 0 {
		s.logger.Warn("create leave empty range",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrEmptyRange
	}

	// The ledger is consulted but never mutated at creation time.
	now := s.clk.Now()
	stored, err := s.repo.GetBalance(ctx, req.EmployeeID, now.Year())
	if err != nil {
		s.logger.Error("create leave balance lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	balance := rolloverBalance(stored, now.Year(), s.cfg.DefaultAnnualDays)
	balanceExceeded := balance.RemainingDays < workingDays
	if balanceExceeded && s.cfg.EnforceBalance {
		s.logger.Warn("create leave balance exceeded",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("remaining_days", balance.RemainingDays),
			zap.Int("working_days", workingDays),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrInsufficientBalance
	}

	l := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateRequest(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("working_days", workingDays),
	)

	resp := mapToResponse(*l)
	resp.BalanceExceeded = balanceExceeded
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllRequests(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	requests, err := s.repo.FindRequestsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Approve(ctx context.Context, reviewerID, id string) (LeaveRequestResponse, error) {
	return s.decide(ctx, reviewerID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, reviewerID, id, adminComment string) (LeaveRequestResponse, error) {
	return s.decide(ctx, reviewerID, id, StatusRejected, &adminComment)
}

// decide runs the terminal transition out of PENDING. The status
// compare-and-set, the ledger increment and the outbox row share one
// transaction: a request is never APPROVED with the ledger untouched, and
// of two concurrent admins exactly one wins.
func (s *service) decide(ctx context.Context, reviewerID, id, targetStatus string, adminComment *string) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("leave decision requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("target_status", targetStatus),
	)

	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidReviewerID
	}

	l, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("leave decision on non-pending request",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave decision begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clk.Now()
	patch := StatusPatch{
		Status:       targetStatus,
		ReviewedBy:   reviewerUUID,
		ReviewedAt:   now,
		AdminComment: adminComment,
	}

	updated, err := qtx.TransitionFromPending(ctx, id, patch)
	if err != nil {
		s.logger.Error("leave decision persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}
	if !updated {
		// Another reviewer decided between our read and the write.
		s.logger.Warn("leave decision lost race", zap.String("leave_id", id))
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if targetStatus == StatusApproved {
		err := qtx.AddUsage(ctx, l.EmployeeID.String(), now.Year(), l.WorkingDays, s.cfg.DefaultAnnualDays)
		if err != nil {
			s.logger.Error("leave decision ledger update failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	if s.outbox != nil {
		event := events.LeaveDecisionEvent{
			EventType:   events.LeaveDecisionEventType(targetStatus),
			RequestID:   rid,
			LeaveID:     l.ID.String(),
			EmployeeID:  l.EmployeeID.String(),
			Status:      targetStatus,
			WorkingDays: l.WorkingDays,
			OccurredAt:  now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal leave decision event failed", zap.Error(err))
			return LeaveRequestResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_request",
			AggregateID:   l.ID.String(),
			EventType:     event.EventType,
			Topic:         events.LeaveDecisionTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("leave decision outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave decision commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	l.Status = targetStatus
	l.ReviewedBy = &reviewerUUID
	l.ReviewedAt = &now
	l.AdminComment = adminComment

	s.logger.Info("leave decision success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	year := s.clk.Now().Year()
	stored, err := s.repo.GetBalance(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("get balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	resp := rolloverBalance(stored, year, s.cfg.DefaultAnnualDays)
	resp.EmployeeID = employeeID
	return resp, nil
}

// rolloverBalance resolves the effective balance for year. A missing or
// stale row yields the default allotment with zero usage; the reset is
// applied on read and never written back. Remaining may be negative.
func rolloverBalance(stored *LeaveBalance, year, defaultTotal int) BalanceResponse {
	if stored == nil || stored.Year != year {
		return BalanceResponse{
			Year:          year,
			TotalDays:     defaultTotal,
			UsedDays:      0,
			RemainingDays: defaultTotal,
		}
	}
	return BalanceResponse{
		EmployeeID:    stored.EmployeeID.String(),
		Year:          stored.Year,
		TotalDays:     stored.TotalDays,
		UsedDays:      stored.UsedDays,
		RemainingDays: stored.TotalDays - stored.UsedDays,
	}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		WorkingDays: l.WorkingDays,
		Reason:      l.Reason,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	resp.AdminComment = l.AdminComment
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
