package models

import (
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	ve := validateStruct(p)
	if p.CreatedDate.IsZero() {
		if ve == nil {
			ve = &ValidationError{}
		}
		ve.Add("created_date", "This field is required.")
	}
	return asError(ve)
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate(now time.Time) {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = now
	}
}

// IsPublished reports whether the post has a publish date that is not in the future.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// Publish stamps the post with now. Calling it again moves the stamp forward.
func (p *Post) Publish(now time.Time) {
	published := now
	p.PublishedDate = &published
}

// ApprovedComments returns the comments a moderator has marked visible.
func (p *Post) ApprovedComments() []*Comment {
	approved := make([]*Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c.Approved {
			approved = append(approved, c)
		}
	}
	return approved
}
