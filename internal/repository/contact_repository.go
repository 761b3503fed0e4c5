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

const contactColumns = `id, first_name, last_name, email, phone, subject, message, status, created_at, updated_at`

// ContactRepository handles persistence of contact form messages.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs the repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create persists a new contact message.
func (r *ContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.Status == "" {
		contact.Status = models.ContactPending
	}
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now
	const query = `INSERT INTO contacts (id, first_name, last_name, email, phone, subject, message, status, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :phone, :subject, :message, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

// List returns contact messages, optionally filtered by status, newest first.
func (r *ContactRepository) List(ctx context.Context, status models.ContactStatus) ([]models.Contact, error) {
	var contacts []models.Contact
	if status != "" {
		query := fmt.Sprintf(`SELECT %s FROM contacts WHERE status = $1 ORDER BY created_at DESC`, contactColumns)
		if err := r.db.SelectContext(ctx, &contacts, query, status); err != nil {
			return nil, fmt.Errorf("list contacts: %w", err)
		}
		return contacts, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM contacts ORDER BY created_at DESC`, contactColumns)
	if err := r.db.SelectContext(ctx, &contacts, query); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// FindByID returns one contact message.
func (r *ContactRepository) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1 LIMIT 1`, contactColumns)
	var contact models.Contact
	if err := r.db.GetContext(ctx, &contact, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &contact, nil
}

// UpdateStatus moves a message to a new processing status.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	const query = `UPDATE contacts SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return nil
}

// Delete removes a contact message.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM contacts WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
