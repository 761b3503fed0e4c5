package models

import (
	"time"

	"github.com/lib/pq"
)

// ResourceType classifies learning resources.
type ResourceType string

const (
	ResourcePDF   ResourceType = "pdf"
	ResourceVideo ResourceType = "video"
	ResourceLink  ResourceType = "link"
	ResourceNote  ResourceType = "note"
)

// LearningResource is a study material saved by a user.
type LearningResource struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"user_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	Subject      string         `db:"subject" json:"subject"`
	ResourceType ResourceType   `db:"resource_type" json:"resource_type"`
	URL          string         `db:"url" json:"url,omitempty"`
	Content      string         `db:"content" json:"content,omitempty"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ResourceRequest holds the payload for creating or updating a resource.
type ResourceRequest struct {
	Title        string       `json:"title" validate:"required"`
	Description  string       `json:"description"`
	Subject      string       `json:"subject"`
	ResourceType ResourceType `json:"resource_type" validate:"required,oneof=pdf video link note"`
	URL          string       `json:"url" validate:"omitempty,url"`
	Content      string       `json:"content"`
	Tags         []string     `json:"tags"`
}

// ResourceFilter narrows resource listings.
type ResourceFilter struct {
	UserID  string
	Subject string
	Type    string
	Tag     string
}
