package models

import "time"

// User is an account that can author posts and moderate comments.
type User struct {
	ID           int       `json:"id" db:"id" validate:"gte=0"`
	Username     string    `json:"username" db:"username" validate:"required,min=3,max=150"`
	PasswordHash string    `json:"-" db:"password_hash" validate:"-"`
	CreatedDate  time.Time `json:"created_date" db:"created_date"`
}

// Post represents a blog post with comments.
type Post struct {
	ID            int        `json:"id" db:"id" validate:"gte=0"`
	AuthorID      int        `json:"author_id" db:"author_id" form:"author" validate:"required,gt=0"`
	Author        string     `json:"author" db:"author" validate:"-"`
	Title         string     `json:"title" db:"title" validate:"required,max=200"`
	Text          string     `json:"text" db:"text" validate:"required"`
	CreatedDate   time.Time  `json:"created_date" db:"created_date"`
	PublishedDate *time.Time `json:"published_date" db:"published_date"`
	Comments      []*Comment `json:"comments,omitempty" db:"-" validate:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID          int       `json:"id" db:"id" validate:"gte=0"`
	PostID      int       `json:"post_id" db:"post_id" form:"post" validate:"required,gt=0"`
	Author      string    `json:"author" db:"author" validate:"required,max=200"`
	Text        string    `json:"text" db:"text" validate:"required"`
	CreatedDate time.Time `json:"created_date" db:"created_date"`
	Approved    bool      `json:"approved" db:"approved"`
	Post        *Post     `json:"-" db:"-" validate:"-"`
}
