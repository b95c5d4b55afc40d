package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"chatdesk/internal/dto"
	"chatdesk/internal/models"
	"chatdesk/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReservedName       = errors.New("department name is reserved")
	ErrDepartmentNotFound = repository.ErrDepartmentNotFound
)

// DepartmentService is the admin surface of the registry. Writes go to
// the repository and invalidate the router's cache.
type DepartmentService struct {
	repo   DepartmentStore
	cache  RegistryInvalidator
	logger *zap.Logger
}

func NewDepartmentService(repo DepartmentStore, cache RegistryInvalidator, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *DepartmentService) Create(ctx context.Context, clientID uuid.UUID, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	if strings.EqualFold(strings.TrimSpace(req.Name), models.GeneralDepartment) {
		return nil, ErrReservedName
	}

	now := time.Now()
	dept := &models.Department{
		ID:             uuid.New(),
		ClientID:       clientID,
		Name:           strings.TrimSpace(req.Name),
		Keywords:       req.Keywords,
		CannedResponse: req.CannedResponse,
		KnowledgeBase:  req.KnowledgeBase,
		Recipient:      req.Recipient,
		Position:       req.Position,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, dept); err != nil {
		return nil, err
	}

	s.cache.Invalidate(clientID)
	s.logger.Info("Department created",
		zap.String("client_id", clientID.String()),
		zap.String("name", dept.Name),
	)
	return dept, nil
}

func (s *DepartmentService) Update(ctx context.Context, clientID, id uuid.UUID, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	if strings.EqualFold(strings.TrimSpace(req.Name), models.GeneralDepartment) {
		return nil, ErrReservedName
	}

	dept := &models.Department{
		ID:             id,
		ClientID:       clientID,
		Name:           strings.TrimSpace(req.Name),
		Keywords:       req.Keywords,
		CannedResponse: req.CannedResponse,
		KnowledgeBase:  req.KnowledgeBase,
		Recipient:      req.Recipient,
		Position:       req.Position,
		UpdatedAt:      time.Now(),
	}

	if err := s.repo.Update(ctx, dept); err != nil {
		return nil, err
	}

	s.cache.Invalidate(clientID)
	return dept, nil
}

func (s *DepartmentService) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, clientID, id); err != nil {
		return err
	}

	s.cache.Invalidate(clientID)
	s.logger.Info("Department deleted",
		zap.String("client_id", clientID.String()),
		zap.String("id", id.String()),
	)
	return nil
}

func (s *DepartmentService) List(ctx context.Context, clientID uuid.UUID) ([]models.Department, error) {
	return s.repo.List(ctx, clientID)
}
