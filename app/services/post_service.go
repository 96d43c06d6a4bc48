package services

import (
	"context"
	"errors"
	"fmt"

	"blogsite/app/models"
	"blogsite/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
	clock       Clock
}

// NewPostService creates a new PostService
func NewPostService(store *repositories.Store, clock Clock) *PostService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PostService{
		postRepo:    store.Posts,
		commentRepo: store.Comments,
		userRepo:    store.Users,
		clock:       clock,
	}
}

// ListPublished returns posts whose publish date has passed, newest first.
func (s *PostService) ListPublished(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.ListPublished(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	return posts, nil
}

// ListDrafts returns posts that have never been published, newest first.
func (s *PostService) ListDrafts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post by ID with all of its comments attached.
// Callers decide whether to show only ApprovedComments.
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = comments

	return post, nil
}

// CreatePost validates and stores a new draft.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	authorErr, err := s.resolveAuthor(ctx, post)
	if err != nil {
		return err
	}

	post.BeforeCreate(s.clock.Now())
	if err := validatePost(post, authorErr); err != nil {
		return err
	}

	return s.postRepo.Create(ctx, post)
}

// UpdatePost saves the editable fields of an existing post. The creation
// and publish dates are kept from the stored copy.
func (s *PostService) UpdatePost(ctx context.Context, post *models.Post) error {
	existing, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return err
	}

	authorErr, err := s.resolveAuthor(ctx, post)
	if err != nil {
		return err
	}

	post.CreatedDate = existing.CreatedDate
	post.PublishedDate = existing.PublishedDate
	if err := validatePost(post, authorErr); err != nil {
		return err
	}

	return s.postRepo.Update(ctx, post)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(ctx context.Context, id int) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	return nil
}

// PublishPost stamps the post with the current time. Publishing again moves the stamp.
func (s *PostService) PublishPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Publish(s.clock.Now())
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to publish post %d: %w", id, err)
	}
	return post, nil
}

// resolveAuthor fills AuthorID from the Author username, or the other way round.
// An author that cannot be resolved is reported as a field error so it can be
// shown together with the other form errors.
func (s *PostService) resolveAuthor(ctx context.Context, post *models.Post) (*models.ValidationError, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case post.Author != "":
		user, err = s.userRepo.GetByUsername(ctx, post.Author)
	case post.AuthorID > 0:
		user, err = s.userRepo.GetByID(ctx, post.AuthorID)
	default:
		return models.NewValidationError("author", "This field is required."), nil
	}

	if errors.Is(err, repositories.ErrNotFound) {
		post.AuthorID = 0
		return models.NewValidationError("author",
			"Select a valid choice. That choice is not one of the available choices."), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up author: %w", err)
	}

	post.AuthorID = user.ID
	post.Author = user.Username
	return nil, nil
}

// validatePost runs the model checks and merges in any author error.
func validatePost(post *models.Post, authorErr *models.ValidationError) error {
	err := post.Validate()
	if authorErr == nil {
		if err != nil {
			return fmt.Errorf("invalid post: %w", err)
		}
		return nil
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		for field, message := range ve.Fields {
			authorErr.Add(field, message)
		}
	}
	return fmt.Errorf("invalid post: %w", authorErr)
}
