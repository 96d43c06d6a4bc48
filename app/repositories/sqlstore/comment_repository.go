package sqlstore

import (
	"context"
	"fmt"

	"blogsite/app/models"

	"github.com/jmoiron/sqlx"
)

const selectComments = `SELECT id, post_id, author, text, created_date, approved FROM comments `

// CommentRepository stores comments in the comments table.
type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
        INSERT INTO comments (post_id, author, text, created_date, approved)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRowxContext(ctx, query,
		comment.PostID, comment.Author, comment.Text, comment.CreatedDate, comment.Approved,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("create comment on post %d: %w", comment.PostID, mapError(err))
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, selectComments+`WHERE id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	query := selectComments + `WHERE post_id = $1 ORDER BY created_date, id`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// Update saves author, text and approval. The comment keeps its post.
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
        UPDATE comments
        SET author = $1, text = $2, approved = $3
        WHERE id = $4
        RETURNING post_id
    `
	err := r.db.QueryRowxContext(ctx, query, comment.Author, comment.Text, comment.Approved, comment.ID).Scan(&comment.PostID)
	if err != nil {
		return fmt.Errorf("update comment %d: %w", comment.ID, mapError(err))
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return expectOne(res)
}
