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

type flashcardRepository interface {
	ListSetsByUser(ctx context.Context, userID string) ([]models.FlashcardSet, error)
	FindSetByID(ctx context.Context, id string) (*models.FlashcardSet, error)
	CreateSet(ctx context.Context, set *models.FlashcardSet) error
	UpdateSet(ctx context.Context, set *models.FlashcardSet) error
	DeleteSet(ctx context.Context, id string) error
	ListCardsBySet(ctx context.Context, setID string) ([]models.Flashcard, error)
	FindCardByID(ctx context.Context, id string) (*models.Flashcard, error)
	CreateCard(ctx context.Context, card *models.Flashcard) error
	UpdateCard(ctx context.Context, card *models.Flashcard) error
	DeleteCard(ctx context.Context, id string) error
}

// FlashcardService manages flashcard sets and cards.
type FlashcardService struct {
	repo      flashcardRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFlashcardService constructs a FlashcardService instance.
func NewFlashcardService(repo flashcardRepository, validate *validator.Validate, logger *zap.Logger) *FlashcardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FlashcardService{repo: repo, validator: validate, logger: logger}
}

// ListSets returns the user's flashcard sets.
func (s *FlashcardService) ListSets(ctx context.Context, userID string) ([]models.FlashcardSet, error) {
	sets, err := s.repo.ListSetsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list flashcard sets")
	}
	return sets, nil
}

// GetSet returns a set with its cards. Sets are private to their owner.
func (s *FlashcardService) GetSet(ctx context.Context, setID, userID string) (*models.FlashcardSetDetail, error) {
	set, err := s.ownedSet(ctx, setID, userID)
	if err != nil {
		return nil, err
	}

	cards, err := s.repo.ListCardsBySet(ctx, setID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list flashcards")
	}
	return &models.FlashcardSetDetail{FlashcardSet: *set, Cards: cards}, nil
}

// CreateSet stores a new flashcard set for the user.
func (s *FlashcardService) CreateSet(ctx context.Context, userID string, req models.FlashcardSetRequest) (*models.FlashcardSet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid set payload")
	}

	set := &models.FlashcardSet{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
	}
	if err := s.repo.CreateSet(ctx, set); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create set")
	}
	return set, nil
}

// UpdateSet replaces a set's details.
func (s *FlashcardService) UpdateSet(ctx context.Context, setID, userID string, req models.FlashcardSetRequest) (*models.FlashcardSet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid set payload")
	}

	set, err := s.ownedSet(ctx, setID, userID)
	if err != nil {
		return nil, err
	}

	set.Title = req.Title
	set.Description = req.Description
	set.Subject = req.Subject
	if err := s.repo.UpdateSet(ctx, set); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update set")
	}
	return set, nil
}

// DeleteSet removes a set and its cards.
func (s *FlashcardService) DeleteSet(ctx context.Context, setID, userID string) error {
	if _, err := s.ownedSet(ctx, setID, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteSet(ctx, setID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete set")
	}
	return nil
}

// AddCard appends a card to one of the user's sets.
func (s *FlashcardService) AddCard(ctx context.Context, setID, userID string, req models.FlashcardRequest) (*models.Flashcard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid card payload")
	}

	if _, err := s.ownedSet(ctx, setID, userID); err != nil {
		return nil, err
	}

	card := &models.Flashcard{SetID: setID, Question: req.Question, Answer: req.Answer}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create card")
	}
	return card, nil
}

// UpdateCard replaces a card's question and answer.
func (s *FlashcardService) UpdateCard(ctx context.Context, cardID, userID string, req models.FlashcardRequest) (*models.Flashcard, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid card payload")
	}

	card, err := s.ownedCard(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}

	card.Question = req.Question
	card.Answer = req.Answer
	if err := s.repo.UpdateCard(ctx, card); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update card")
	}
	return card, nil
}

// DeleteCard removes a card from one of the user's sets.
func (s *FlashcardService) DeleteCard(ctx context.Context, cardID, userID string) error {
	if _, err := s.ownedCard(ctx, cardID, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteCard(ctx, cardID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete card")
	}
	return nil
}

func (s *FlashcardService) ownedSet(ctx context.Context, setID, userID string) (*models.FlashcardSet, error) {
	set, err := s.repo.FindSetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flashcard set not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load set")
	}
	if set.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "set belongs to another user")
	}
	return set, nil
}

func (s *FlashcardService) ownedCard(ctx context.Context, cardID, userID string) (*models.Flashcard, error) {
	card, err := s.repo.FindCardByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "flashcard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load card")
	}
	if _, err := s.ownedSet(ctx, card.SetID, userID); err != nil {
		return nil, err
	}
	return card, nil
}
