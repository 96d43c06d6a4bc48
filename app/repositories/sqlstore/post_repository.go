package sqlstore

import (
	"context"
	"fmt"
	"time"

	"blogsite/app/models"

	"github.com/jmoiron/sqlx"
)

const selectPosts = `
    SELECT p.id, p.author_id, u.username AS author, p.title, p.text, p.created_date, p.published_date
    FROM posts p
    JOIN users u ON u.id = p.author_id
`

// PostRepository stores posts in the posts table. Comments are removed by
// the ON DELETE CASCADE foreign key.
type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts (author_id, title, text, created_date, published_date)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err := r.db.QueryRowxContext(ctx, query,
		post.AuthorID, post.Title, post.Text, post.CreatedDate, post.PublishedDate,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("create post: %w", mapError(err))
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.GetContext(ctx, &post, selectPosts+`WHERE p.id = $1`, id); err != nil {
		return nil, mapError(err)
	}
	return &post, nil
}

func (r *PostRepository) ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := selectPosts + `
        WHERE p.published_date IS NOT NULL AND p.published_date <= $1
        ORDER BY p.published_date DESC, p.id DESC
    `
	posts := []*models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, now); err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) ListDrafts(ctx context.Context) ([]*models.Post, error) {
	query := selectPosts + `
        WHERE p.published_date IS NULL
        ORDER BY p.created_date DESC, p.id DESC
    `
	posts := []*models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
        UPDATE posts
        SET author_id = $1, title = $2, text = $3, published_date = $4
        WHERE id = $5
    `
	res, err := r.db.ExecContext(ctx, query, post.AuthorID, post.Title, post.Text, post.PublishedDate, post.ID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, mapError(err))
	}
	return expectOne(res)
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return expectOne(res)
}
