package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/studyhub-app/studyhub-api/internal/models"
	appErrors "github.com/studyhub-app/studyhub-api/pkg/errors"
)

type resourceRepository interface {
	List(ctx context.Context, filter models.ResourceFilter) ([]models.LearningResource, error)
	FindByID(ctx context.Context, id string) (*models.LearningResource, error)
	Create(ctx context.Context, resource *models.LearningResource) error
	Update(ctx context.Context, resource *models.LearningResource) error
	Delete(ctx context.Context, id string) error
}

// ResourceService manages learning resources.
type ResourceService struct {
	repo      resourceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResourceService constructs a ResourceService instance.
func NewResourceService(repo resourceRepository, validate *validator.Validate, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResourceService{repo: repo, validator: validate, logger: logger}
}

// List returns the user's resources, narrowed by the optional filters.
func (s *ResourceService) List(ctx context.Context, userID, subject, resourceType, tag string) ([]models.LearningResource, error) {
	resources, err := s.repo.List(ctx, models.ResourceFilter{
		UserID:  userID,
		Subject: subject,
		Type:    resourceType,
		Tag:     tag,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}
	return resources, nil
}

// Get returns one resource. Resources are private to their owner.
func (s *ResourceService) Get(ctx context.Context, resourceID, userID string) (*models.LearningResource, error) {
	return s.ownedResource(ctx, resourceID, userID)
}

// Create stores a new resource for the user.
func (s *ResourceService) Create(ctx context.Context, userID string, req models.ResourceRequest) (*models.LearningResource, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}

	resource := &models.LearningResource{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		ResourceType: req.ResourceType,
		URL:          req.URL,
		Content:      req.Content,
		Tags:         req.Tags,
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create resource")
	}
	return resource, nil
}

// Update replaces a resource's details.
func (s *ResourceService) Update(ctx context.Context, resourceID, userID string, req models.ResourceRequest) (*models.LearningResource, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}

	resource, err := s.ownedResource(ctx, resourceID, userID)
	if err != nil {
		return nil, err
	}

	resource.Title = req.Title
	resource.Description = req.Description
	resource.Subject = req.Subject
	resource.ResourceType = req.ResourceType
	resource.URL = req.URL
	resource.Content = req.Content
	resource.Tags = req.Tags
	if err := s.repo.Update(ctx, resource); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update resource")
	}
	return resource, nil
}

// Delete removes a resource.
func (s *ResourceService) Delete(ctx context.Context, resourceID, userID string) error {
	if _, err := s.ownedResource(ctx, resourceID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, resourceID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete resource")
	}
	return nil
}

func (s *ResourceService) ownedResource(ctx context.Context, resourceID, userID string) (*models.LearningResource, error) {
	resource, err := s.repo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	if resource.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "resource belongs to another user")
	}
	return resource, nil
}
