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

type goalRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.StudyGoal, error)
	FindByID(ctx context.Context, id string) (*models.StudyGoal, error)
	Create(ctx context.Context, goal *models.StudyGoal) error
	Update(ctx context.Context, goal *models.StudyGoal) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}

// GoalService manages study goals.
type GoalService struct {
	repo      goalRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGoalService constructs a GoalService instance.
func NewGoalService(repo goalRepository, validate *validator.Validate, logger *zap.Logger) *GoalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GoalService{repo: repo, validator: validate, logger: logger}
}

// List returns the user's goals.
func (s *GoalService) List(ctx context.Context, userID string) ([]models.StudyGoal, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, nil
}

// Create stores a new goal for the user.
func (s *GoalService) Create(ctx context.Context, userID string, req models.StudyGoalRequest) (*models.StudyGoal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}

	goal := &models.StudyGoal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		TargetDate:  req.TargetDate,
		Completed:   req.Completed,
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create goal")
	}
	return goal, nil
}

// Update replaces a goal's details.
func (s *GoalService) Update(ctx context.Context, goalID, userID string, req models.StudyGoalRequest) (*models.StudyGoal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}

	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.TargetDate = req.TargetDate
	goal.Completed = req.Completed
	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update goal")
	}
	return goal, nil
}

// ToggleCompleted flips a goal between done and not done.
func (s *GoalService) ToggleCompleted(ctx context.Context, goalID, userID string) (*models.StudyGoal, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	goal.Completed = !goal.Completed
	if err := s.repo.SetCompleted(ctx, goal.ID, goal.Completed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle goal")
	}
	return goal, nil
}

// Delete removes a goal.
func (s *GoalService) Delete(ctx context.Context, goalID, userID string) error {
	if _, err := s.ownedGoal(ctx, goalID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, goalID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete goal")
	}
	return nil
}

func (s *GoalService) ownedGoal(ctx context.Context, goalID, userID string) (*models.StudyGoal, error) {
	goal, err := s.repo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "goal not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load goal")
	}
	if goal.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "goal belongs to another user")
	}
	return goal, nil
}
