package notification

import (
	"context"
	"time"

	"crewtrack/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, employeeID, id string) error
}

type service struct {
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{repo: repo, clk: clk, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return NotificationResponse{}, err
	}

	n := &Notification{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		Kind:       req.Kind,
		RefID:      req.RefID,
		Message:    req.Message,
		CreatedAt:  s.clk.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return NotificationResponse{}, err
	}

	s.logger.Info("notification created",
		zap.String("employee_id", req.EmployeeID),
		zap.String("kind", req.Kind),
		zap.String("ref_id", req.RefID),
	)
	return mapToResponse(*n), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, employeeID, id string) error {
	return s.repo.MarkRead(ctx, employeeID, id, s.clk.Now())
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:         n.ID.String(),
		EmployeeID: n.EmployeeID.String(),
		Kind:       n.Kind,
		RefID:      n.RefID,
		Message:    n.Message,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
