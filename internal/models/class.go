package models

import "time"

// Class represents a class owned by a teacher.
type Class struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Name        string    `db:"name" json:"name"`
	Subject     string    `db:"subject" json:"subject"`
	GradeLevel  string    `db:"grade_level" json:"grade_level"`
	Schedule    string    `db:"schedule" json:"schedule"`
	Room        string    `db:"room" json:"room"`
	Description string    `db:"description" json:"description"`
	ClassCode   string    `db:"class_code" json:"class_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with the enrolled student count.
type ClassDetail struct {
	Class
	StudentCount int `db:"student_count" json:"student_count"`
}

// ClassCreateRequest holds the payload for creating a class.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	GradeLevel  string `json:"grade_level"`
	Schedule    string `json:"schedule"`
	Room        string `json:"room"`
	Description string `json:"description"`
}

// ClassUpdateRequest holds the payload for updating a class.
type ClassUpdateRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	GradeLevel  string `json:"grade_level"`
	Schedule    string `json:"schedule"`
	Room        string `json:"room"`
	Description string `json:"description"`
}

// JoinClassRequest holds the class code a student uses to enroll.
type JoinClassRequest struct {
	ClassCode string `json:"class_code" validate:"required,len=6"`
}

// EnrolledClass is a class as seen by an enrolled student.
type EnrolledClass struct {
	Class
	EnrolledAt       time.Time `db:"enrolled_at" json:"enrolled_at"`
	TeacherFirstName string    `db:"teacher_first_name" json:"teacher_first_name"`
	TeacherLastName  string    `db:"teacher_last_name" json:"teacher_last_name"`
	TeacherEmail     string    `db:"teacher_email" json:"teacher_email"`
}
