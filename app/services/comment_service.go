package services

import (
	"context"
	"fmt"

	"blogsite/app/models"
	"blogsite/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	clock       Clock
}

// NewCommentService creates a new CommentService
func NewCommentService(store *repositories.Store, clock Clock) *CommentService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CommentService{
		commentRepo: store.Comments,
		postRepo:    store.Posts,
		clock:       clock,
	}
}

// AddComment attaches a new, unapproved comment to the post.
func (s *CommentService) AddComment(ctx context.Context, postID int, comment *models.Comment) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := comment.SetPost(post); err != nil {
		return err
	}

	comment.Approved = false
	comment.BeforeCreate(s.clock.Now())
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("invalid comment: %w", err)
	}

	return s.commentRepo.Create(ctx, comment)
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// Approve marks a comment visible. Other comments are untouched.
func (s *CommentService) Approve(ctx context.Context, id int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to approve comment %d: %w", id, err)
	}
	return comment, nil
}

// Remove deletes a comment and returns the id of the post it belonged to.
func (s *CommentService) Remove(ctx context.Context, id int) (int, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}

	postID := comment.PostID
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to remove comment %d: %w", id, err)
	}
	return postID, nil
}
