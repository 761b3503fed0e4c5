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

const quizColumns = `id, class_id, title, description, due_date, time_limit_minutes, quiz_type, total_points, created_at, updated_at`

const questionColumns = `id, quiz_id, question_text, question_type, options, correct_answer, points, order_index`

// QuizRepository handles persistence of quizzes and their questions.
type QuizRepository struct {
	db *sqlx.DB
}

// NewQuizRepository constructs the repository.
func NewQuizRepository(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// ListByClass returns the quizzes of a class with question counts, newest first.
func (r *QuizRepository) ListByClass(ctx context.Context, classID string) ([]models.QuizSummary, error) {
	const query = `SELECT q.id, q.class_id, q.title, q.description, q.due_date, q.time_limit_minutes, q.quiz_type, q.total_points, q.created_at, q.updated_at,
        COUNT(qq.id) AS question_count
        FROM quizzes q
        LEFT JOIN quiz_questions qq ON qq.quiz_id = q.id
        WHERE q.class_id = $1
        GROUP BY q.id
        ORDER BY q.created_at DESC`
	var quizzes []models.QuizSummary
	if err := r.db.SelectContext(ctx, &quizzes, query, classID); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// ListByTeacher returns every quiz across a teacher's classes.
func (r *QuizRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.QuizSummary, error) {
	const query = `SELECT q.id, q.class_id, q.title, q.description, q.due_date, q.time_limit_minutes, q.quiz_type, q.total_points, q.created_at, q.updated_at,
        COUNT(qq.id) AS question_count
        FROM quizzes q
        JOIN classes c ON c.id = q.class_id
        LEFT JOIN quiz_questions qq ON qq.quiz_id = q.id
        WHERE c.teacher_id = $1
        GROUP BY q.id
        ORDER BY q.created_at DESC`
	var quizzes []models.QuizSummary
	if err := r.db.SelectContext(ctx, &quizzes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher quizzes: %w", err)
	}
	return quizzes, nil
}

// FindByID returns a quiz by identifier.
func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	query := fmt.Sprintf(`SELECT %s FROM quizzes WHERE id = $1 LIMIT 1`, quizColumns)
	var quiz models.Quiz
	if err := r.db.GetContext(ctx, &quiz, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find quiz by id: %w", err)
	}
	return &quiz, nil
}

// Create persists a new quiz.
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = now
	}
	quiz.UpdatedAt = now
	const query = `INSERT INTO quizzes (id, class_id, title, description, due_date, time_limit_minutes, quiz_type, total_points, created_at, updated_at)
        VALUES (:id, :class_id, :title, :description, :due_date, :time_limit_minutes, :quiz_type, :total_points, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, quiz); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a quiz.
func (r *QuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	quiz.UpdatedAt = time.Now().UTC()
	const query = `UPDATE quizzes SET title = :title, description = :description, due_date = :due_date,
        time_limit_minutes = :time_limit_minutes, quiz_type = :quiz_type, total_points = :total_points, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, quiz); err != nil {
		return fmt.Errorf("update quiz: %w", err)
	}
	return nil
}

// Delete removes a quiz; questions and submissions cascade in SQL.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM quizzes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	return nil
}

// ListQuestions returns a quiz's questions in presentation order.
func (r *QuizRepository) ListQuestions(ctx context.Context, quizID string) ([]models.QuizQuestion, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_questions WHERE quiz_id = $1 ORDER BY order_index ASC`, questionColumns)
	var questions []models.QuizQuestion
	if err := r.db.SelectContext(ctx, &questions, query, quizID); err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	return questions, nil
}

// FindQuestionByID returns one question.
func (r *QuizRepository) FindQuestionByID(ctx context.Context, id string) (*models.QuizQuestion, error) {
	query := fmt.Sprintf(`SELECT %s FROM quiz_questions WHERE id = $1 LIMIT 1`, questionColumns)
	var question models.QuizQuestion
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find quiz question: %w", err)
	}
	return &question, nil
}

// CreateQuestion persists a new question.
func (r *QuizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	const query = `INSERT INTO quiz_questions (id, quiz_id, question_text, question_type, options, correct_answer, points, order_index)
        VALUES (:id, :quiz_id, :question_text, :question_type, :options, :correct_answer, :points, :order_index)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("create quiz question: %w", err)
	}
	return nil
}

// UpdateQuestion replaces a question's content and grading key.
func (r *QuizRepository) UpdateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	const query = `UPDATE quiz_questions SET question_text = :question_text, question_type = :question_type,
        options = :options, correct_answer = :correct_answer, points = :points, order_index = :order_index
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("update quiz question: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question.
func (r *QuizRepository) DeleteQuestion(ctx context.Context, id string) error {
	const query = `DELETE FROM quiz_questions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete quiz question: %w", err)
	}
	return nil
}
