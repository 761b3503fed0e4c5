package models

import "time"

// FlashcardSet groups flashcards owned by a user.
type FlashcardSet struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Subject     string    `db:"subject" json:"subject"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// FlashcardSetDetail includes the set's cards.
type FlashcardSetDetail struct {
	FlashcardSet
	Cards []Flashcard `json:"flashcards"`
}

// FlashcardSetRequest holds the payload for creating or updating a set.
type FlashcardSetRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

// FlashcardRequest holds the payload for creating or updating a card.
type FlashcardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// Flashcard is a single question/answer card.
type Flashcard struct {
	ID        string    `db:"id" json:"id"`
	SetID     string    `db:"set_id" json:"set_id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
