package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	ve := validateStruct(c)
	if c.CreatedDate.IsZero() {
		if ve == nil {
			ve = &ValidationError{}
		}
		ve.Add("created_date", "This field is required.")
	}
	return asError(ve)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(now time.Time) {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.Post = post
	c.PostID = post.ID
	return nil
}

// Approve marks the comment visible on its post.
func (c *Comment) Approve() {
	c.Approved = true
}
