package repositories

import (
	"context"
	"time"

	"blogsite/app/models"
)

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	// ListPublished returns posts published at or before now, newest first.
	ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error)
	// ListDrafts returns unpublished posts, most recently created first.
	ListDrafts(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post and every comment attached to it.
	Delete(ctx context.Context, id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int) error
}

// Store groups the repositories backed by one database.
type Store struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
	closer   func() error
}

// NewStore assembles a Store. closer may be nil.
func NewStore(users UserRepository, posts PostRepository, comments CommentRepository, closer func() error) *Store {
	return &Store{Users: users, Posts: posts, Comments: comments, closer: closer}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
