package models

import "time"

// ContactStatus tracks how far a contact message has been processed.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactResolved ContactStatus = "resolved"
)

// Valid reports whether the status is one of the known values.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactPending, ContactRead, ContactReplied, ContactResolved:
		return true
	}
	return false
}

// ContactRequest holds the public contact form payload.
type ContactRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// ContactStatusRequest moves a message to a new status.
type ContactStatusRequest struct {
	Status ContactStatus `json:"status" validate:"required"`
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string        `db:"id" json:"id"`
	FirstName string        `db:"first_name" json:"first_name"`
	LastName  string        `db:"last_name" json:"last_name"`
	Email     string        `db:"email" json:"email"`
	Phone     string        `db:"phone" json:"phone,omitempty"`
	Subject   string        `db:"subject" json:"subject"`
	Message   string        `db:"message" json:"message"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
