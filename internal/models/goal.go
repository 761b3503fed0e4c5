package models

import "time"

// StudyGoal is a completable goal owned by a user.
type StudyGoal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	TargetDate  *time.Time `db:"target_date" json:"target_date,omitempty"`
	Completed   bool       `db:"completed" json:"completed"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// StudyGoalRequest holds the payload for creating or updating a goal.
type StudyGoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Completed   bool       `json:"completed"`
}
