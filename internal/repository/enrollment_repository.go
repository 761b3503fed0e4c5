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

// EnrollmentRepository handles persistence of class enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists checks whether the student is already enrolled in the class.
func (r *EnrollmentRepository) Exists(ctx context.Context, classID, userID string) (bool, error) {
	const query = `SELECT 1 FROM class_students WHERE class_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO class_students (id, class_id, user_id, enrolled_at)
        VALUES (:id, :class_id, :user_id, :enrolled_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes a student from a class.
func (r *EnrollmentRepository) Delete(ctx context.Context, classID, userID string) error {
	const query = `DELETE FROM class_students WHERE class_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, classID, userID); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ListStudentsByClass returns the class roster joined with user details,
// ordered by first name.
func (r *EnrollmentRepository) ListStudentsByClass(ctx context.Context, classID string) ([]models.EnrolledStudent, error) {
	const query = `SELECT u.id, u.first_name, u.last_name, u.email, cs.enrolled_at, u.created_at AS member_since
        FROM class_students cs
        JOIN users u ON u.id = cs.user_id
        WHERE cs.class_id = $1
        ORDER BY u.first_name ASC`
	var students []models.EnrolledStudent
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}

// ListClassesByStudent returns the classes a student is enrolled in, joined
// with teacher details.
func (r *EnrollmentRepository) ListClassesByStudent(ctx context.Context, userID string) ([]models.EnrolledClass, error) {
	const query = `SELECT c.id, c.teacher_id, c.name, c.subject, c.grade_level, c.schedule, c.room, c.description, c.class_code, c.created_at, c.updated_at,
        cs.enrolled_at, u.first_name AS teacher_first_name, u.last_name AS teacher_last_name, u.email AS teacher_email
        FROM class_students cs
        JOIN classes c ON c.id = cs.class_id
        JOIN users u ON u.id = c.teacher_id
        WHERE cs.user_id = $1
        ORDER BY cs.enrolled_at DESC`
	var classes []models.EnrolledClass
	if err := r.db.SelectContext(ctx, &classes, query, userID); err != nil {
		return nil, fmt.Errorf("list student classes: %w", err)
	}
	return classes, nil
}
