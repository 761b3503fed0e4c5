package models

import "time"

// Enrollment links a student to a class they joined via class code.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrolledStudent is a roster row joined with user details.
type EnrolledStudent struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	EnrolledAt  time.Time `db:"enrolled_at" json:"enrolled_at"`
	MemberSince time.Time `db:"member_since" json:"member_since"`
}
