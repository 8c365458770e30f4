package models

import (
	"fmt"
	"time"
)

// ParseStatus converts raw input to a PostStatus. Empty input yields the default.
func ParseStatus(raw string) (PostStatus, error) {
	if raw == "" {
		return StatusDraft, nil
	}
	s := PostStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: status must be one of draft, published, archived", ErrValidation)
	}
	return s, nil
}

// Valid reports whether the status is one of the known values.
func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if p.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at cannot be zero", ErrValidation)
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
}

// Apply copies the non-empty changes onto the post.
func (p *Post) Apply(c PostChanges) {
	if c.Title != "" {
		p.Title = c.Title
	}
	if c.Body != "" {
		p.Body = c.Body
	}
	if c.Status != "" {
		p.Status = c.Status
	}
	if c.Image != "" {
		p.Image = c.Image
	}
}

// ImageURL rewrites a stored post image filename into its served path.
func ImageURL(role, filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + role + "/" + filename
}
