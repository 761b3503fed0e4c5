package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType is the closed set of grading categories.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionShortAnswer    QuestionType = "short_answer"
)

// Quiz represents a quiz attached to a class.
type Quiz struct {
	ID               string     `db:"id" json:"id"`
	ClassID          string     `db:"class_id" json:"class_id"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	DueDate          *time.Time `db:"due_date" json:"due_date,omitempty"`
	TimeLimitMinutes int        `db:"time_limit_minutes" json:"time_limit_minutes"`
	QuizType         string     `db:"quiz_type" json:"quiz_type"`
	TotalPoints      int        `db:"total_points" json:"total_points"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// QuizSummary extends Quiz with its question count.
type QuizSummary struct {
	Quiz
	QuestionCount int `db:"question_count" json:"question_count"`
}

// QuestionOption is one selectable answer of a multiple choice question.
type QuestionOption struct {
	OptionText string `json:"option_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// OptionList stores question options as a jsonb column.
type OptionList []QuestionOption

// Value implements driver.Valuer.
func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner.
func (o *OptionList) Scan(src interface{}) error {
	if src == nil {
		*o = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported option list source %T", src)
	}
	return json.Unmarshal(raw, o)
}

// QuizQuestion belongs to a quiz and carries its grading key.
type QuizQuestion struct {
	ID            string       `db:"id" json:"id"`
	QuizID        string       `db:"quiz_id" json:"quiz_id"`
	QuestionText  string       `db:"question_text" json:"question_text"`
	QuestionType  QuestionType `db:"question_type" json:"question_type"`
	Options       OptionList   `db:"options" json:"options,omitempty"`
	CorrectAnswer string       `db:"correct_answer" json:"correct_answer,omitempty"`
	Points        int          `db:"points" json:"points"`
	OrderIndex    int          `db:"order_index" json:"order_index"`
}

// SubmittedAnswer is a student's answer to one question.
type SubmittedAnswer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Answer     string `json:"answer"`
}

// GradedAnswer records the outcome of grading one submitted answer.
type GradedAnswer struct {
	QuestionID   string `json:"question_id"`
	Answer       string `json:"answer"`
	Correct      bool   `json:"correct"`
	PointsEarned int    `json:"points_earned"`
}

// GradedAnswerList stores graded answers as a jsonb column.
type GradedAnswerList []GradedAnswer

// Value implements driver.Valuer.
func (g GradedAnswerList) Value() (driver.Value, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g)
}

// Scan implements sql.Scanner.
func (g *GradedAnswerList) Scan(src interface{}) error {
	if src == nil {
		*g = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported graded answer source %T", src)
	}
	return json.Unmarshal(raw, g)
}

// QuizSubmission is one graded attempt at a quiz. Resubmission appends a new
// row; readers take the newest row per student.
type QuizSubmission struct {
	ID               string           `db:"id" json:"id"`
	QuizID           string           `db:"quiz_id" json:"quiz_id"`
	UserID           string           `db:"user_id" json:"user_id"`
	Answers          GradedAnswerList `db:"answers" json:"answers"`
	Score            int              `db:"score" json:"score"`
	TotalPoints      int              `db:"total_points" json:"total_points"`
	TimeSpentSeconds int              `db:"time_spent_seconds" json:"time_spent_seconds"`
	SubmittedAt      time.Time        `db:"submitted_at" json:"submitted_at"`
}

// QuizCreateRequest holds the payload for creating a quiz.
type QuizCreateRequest struct {
	ClassID          string     `json:"class_id" validate:"required"`
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	TimeLimitMinutes int        `json:"time_limit_minutes" validate:"gte=0"`
	QuizType         string     `json:"quiz_type"`
}

// QuizUpdateRequest holds the payload for updating a quiz.
type QuizUpdateRequest struct {
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	TimeLimitMinutes int        `json:"time_limit_minutes" validate:"gte=0"`
	QuizType         string     `json:"quiz_type"`
}

// QuestionRequest holds the payload for creating or updating a question.
type QuestionRequest struct {
	QuestionText  string       `json:"question_text" validate:"required"`
	QuestionType  QuestionType `json:"question_type" validate:"required,oneof=multiple_choice true_false short_answer"`
	Options       OptionList   `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        int          `json:"points" validate:"gte=0"`
	OrderIndex    int          `json:"order_index" validate:"gte=0"`
}

// SubmitQuizRequest holds a student's answers for grading.
type SubmitQuizRequest struct {
	Answers          []SubmittedAnswer `json:"answers" validate:"required,dive"`
	TimeSpentSeconds int               `json:"time_spent_seconds" validate:"gte=0"`
}

// TakeQuestion is a question stripped of its grading key for quiz taking.
type TakeQuestion struct {
	ID           string       `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options,omitempty"`
	Points       int          `json:"points"`
	OrderIndex   int          `json:"order_index"`
}

// TakeQuizView is the sanitized quiz payload served to students.
type TakeQuizView struct {
	Quiz      Quiz           `json:"quiz"`
	Questions []TakeQuestion `json:"questions"`
}
