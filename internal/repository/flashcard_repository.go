package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

// FlashcardRepository handles persistence of flashcard sets and cards.
type FlashcardRepository struct {
	db *sqlx.DB
}

// NewFlashcardRepository constructs the repository.
func NewFlashcardRepository(db *sqlx.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// ListSetsByUser returns a user's flashcard sets, newest first.
func (r *FlashcardRepository) ListSetsByUser(ctx context.Context, userID string) ([]models.FlashcardSet, error) {
	const query = `SELECT id, user_id, title, description, subject, created_at, updated_at
        FROM flashcard_sets WHERE user_id = $1 ORDER BY created_at DESC`
	var sets []models.FlashcardSet
	if err := r.db.SelectContext(ctx, &sets, query, userID); err != nil {
		return nil, fmt.Errorf("list flashcard sets: %w", err)
	}
	return sets, nil
}

// FindSetByID returns a flashcard set by identifier.
func (r *FlashcardRepository) FindSetByID(ctx context.Context, id string) (*models.FlashcardSet, error) {
	const query = `SELECT id, user_id, title, description, subject, created_at, updated_at
        FROM flashcard_sets WHERE id = $1 LIMIT 1`
	var set models.FlashcardSet
	if err := r.db.GetContext(ctx, &set, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find flashcard set: %w", err)
	}
	return &set, nil
}

// CreateSet persists a new flashcard set.
func (r *FlashcardRepository) CreateSet(ctx context.Context, set *models.FlashcardSet) error {
	if set.ID == "" {
		set.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now
	}
	set.UpdatedAt = now
	const query = `INSERT INTO flashcard_sets (id, user_id, title, description, subject, created_at, updated_at)
        VALUES (:id, :user_id, :title, :description, :subject, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, set); err != nil {
		return fmt.Errorf("create flashcard set: %w", err)
	}
	return nil
}

// UpdateSet replaces the mutable fields of a set.
func (r *FlashcardRepository) UpdateSet(ctx context.Context, set *models.FlashcardSet) error {
	set.UpdatedAt = time.Now().UTC()
	const query = `UPDATE flashcard_sets SET title = :title, description = :description, subject = :subject, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, set); err != nil {
		return fmt.Errorf("update flashcard set: %w", err)
	}
	return nil
}

// DeleteSet removes a set; cards cascade in SQL.
func (r *FlashcardRepository) DeleteSet(ctx context.Context, id string) error {
	const query = `DELETE FROM flashcard_sets WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete flashcard set: %w", err)
	}
	return nil
}

// CountSetsByUser returns the number of sets a user owns.
func (r *FlashcardRepository) CountSetsByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM flashcard_sets WHERE user_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count flashcard sets: %w", err)
	}
	return count, nil
}

// ListCardsBySet returns a set's cards in creation order.
func (r *FlashcardRepository) ListCardsBySet(ctx context.Context, setID string) ([]models.Flashcard, error) {
	const query = `SELECT id, set_id, question, answer, created_at, updated_at
        FROM flashcards WHERE set_id = $1 ORDER BY created_at ASC`
	var cards []models.Flashcard
	if err := r.db.SelectContext(ctx, &cards, query, setID); err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}
	return cards, nil
}

// FindCardByID returns one card.
func (r *FlashcardRepository) FindCardByID(ctx context.Context, id string) (*models.Flashcard, error) {
	const query = `SELECT id, set_id, question, answer, created_at, updated_at FROM flashcards WHERE id = $1 LIMIT 1`
	var card models.Flashcard
	if err := r.db.GetContext(ctx, &card, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find flashcard: %w", err)
	}
	return &card, nil
}

// CreateCard persists a new card.
func (r *FlashcardRepository) CreateCard(ctx context.Context, card *models.Flashcard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	const query = `INSERT INTO flashcards (id, set_id, question, answer, created_at, updated_at)
        VALUES (:id, :set_id, :question, :answer, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return fmt.Errorf("create flashcard: %w", err)
	}
	return nil
}

// UpdateCard replaces a card's question and answer.
func (r *FlashcardRepository) UpdateCard(ctx context.Context, card *models.Flashcard) error {
	card.UpdatedAt = time.Now().UTC()
	const query = `UPDATE flashcards SET question = :question, answer = :answer, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, card); err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}
	return nil
}

// DeleteCard removes a card.
func (r *FlashcardRepository) DeleteCard(ctx context.Context, id string) error {
	const query = `DELETE FROM flashcards WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	return nil
}
