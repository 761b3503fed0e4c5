package models

import "time"

// StudySession is a planned or completed study block for a user.
type StudySession struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Subject         string    `db:"subject" json:"subject"`
	Topic           string    `db:"topic" json:"topic"`
	SessionDate     time.Time `db:"session_date" json:"session_date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PomodoroCount   int       `db:"pomodoro_count" json:"pomodoro_count"`
	Completed       bool      `db:"completed" json:"completed"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// StudySessionRequest holds the payload for creating or updating a session.
type StudySessionRequest struct {
	Subject         string    `json:"subject" validate:"required"`
	Topic           string    `json:"topic"`
	SessionDate     time.Time `json:"session_date" validate:"required"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
	PomodoroCount   int       `json:"pomodoro_count" validate:"gte=0"`
	Completed       bool      `json:"completed"`
}

// StudySessionFilter narrows session listings.
type StudySessionFilter struct {
	UserID    string
	Subject   string
	StartDate *time.Time
	EndDate   *time.Time
}
