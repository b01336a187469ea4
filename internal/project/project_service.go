package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	projecterrors "crewtrack/internal/project/errors"
	"crewtrack/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusActive = "ACTIVE"
	StatusDone   = "DONE"

	KindPhoto    = "PHOTO"
	KindDocument = "DOCUMENT"
)

//go:generate mockgen -source=project_service.go -destination=mock/project_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	GetAll(ctx context.Context) ([]ProjectResponse, error)
	GetByID(ctx context.Context, id string) (ProjectResponse, error)
	Update(ctx context.Context, id string, req UpdateProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, id string) error
	AddAttachment(ctx context.Context, projectID, uploaderID string, req AddAttachmentRequest) (AttachmentResponse, error)
	GetAttachments(ctx context.Context, projectID string) ([]AttachmentResponse, error)
}

type service struct {
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("project.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("project.service")
	}
	return &service{repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error) {
	s.logger.Debug("create project requested", zap.String("name", req.Name))

	nextVal, err := s.counter.GetNextValue(ctx, "project_number")
	if err != nil {
		s.logger.Error("create project generate number failed", zap.Error(err))
		return ProjectResponse{}, err
	}

	p := &Project{
		ID:       uuid.New(),
		Number:   fmt.Sprintf("PRJ-%04d", nextVal),
		Name:     req.Name,
		Customer: req.Customer,
		Address:  req.Address,
		Status:   StatusActive,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create project persist failed", zap.Error(err))
		return ProjectResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create project success",
		zap.String("project_id", p.ID.String()),
		zap.String("number", p.Number),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context) ([]ProjectResponse, error) {
	projects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		res[i] = mapToResponse(p)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	s.logger.Debug("update project requested", zap.String("project_id", id))

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}

	p.Name = req.Name
	p.Customer = req.Customer
	p.Address = req.Address
	p.Status = req.Status

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update project persist failed", zap.Error(err))
		return ProjectResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update project success", zap.String("project_id", id))
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete project requested", zap.String("project_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete project failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete project success", zap.String("project_id", id))
	return nil
}

func (s *service) AddAttachment(ctx context.Context, projectID, uploaderID string, req AddAttachmentRequest) (AttachmentResponse, error) {
	projectUUID, err := uuid.Parse(projectID)
	if err != nil {
		return AttachmentResponse{}, projecterrors.ErrInvalidProjectID
	}
	uploaderUUID, err := uuid.Parse(uploaderID)
	if err != nil {
		return AttachmentResponse{}, projecterrors.ErrInvalidUploaderID
	}

	// Attaching to a missing project must 404, not leave an orphan row.
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return AttachmentResponse{}, mapRepositoryError(err)
	}

	a := &Attachment{
		ID:          uuid.New(),
		ProjectID:   projectUUID,
		Kind:        req.Kind,
		ObjectKey:   req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		UploadedBy:  uploaderUUID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.AddAttachment(ctx, a); err != nil {
		s.logger.Error("add attachment persist failed", zap.Error(err))
		return AttachmentResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("attachment added",
		zap.String("project_id", projectID),
		zap.String("attachment_id", a.ID.String()),
	)
	return mapAttachmentToResponse(*a), nil
}

func (s *service) GetAttachments(ctx context.Context, projectID string) ([]AttachmentResponse, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return nil, projecterrors.ErrInvalidProjectID
	}

	rows, err := s.repo.FindAttachments(ctx, projectID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]AttachmentResponse, len(rows))
	for i, a := range rows {
		res[i] = mapAttachmentToResponse(a)
	}
	return res, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return projecterrors.ErrProjectNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return projecterrors.ErrProjectNumberAlreadyExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return projecterrors.ErrProjectNumberAlreadyExists
	}

	return err
}

func mapToResponse(p Project) ProjectResponse {
	return ProjectResponse{
		ID:       p.ID.String(),
		Number:   p.Number,
		Name:     p.Name,
		Customer: p.Customer,
		Address:  p.Address,
		Status:   p.Status,
	}
}

func mapAttachmentToResponse(a Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		ProjectID:   a.ProjectID.String(),
		Kind:        a.Kind,
		ObjectKey:   a.ObjectKey,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		UploadedBy:  a.UploadedBy.String(),
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
