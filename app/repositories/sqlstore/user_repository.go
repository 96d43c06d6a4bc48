package sqlstore

import (
	"context"
	"fmt"

	"blogsite/app/models"

	"github.com/jmoiron/sqlx"
)

// UserRepository stores accounts in the users table.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (username, password_hash, created_date)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.CreatedDate).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Username, mapError(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, password_hash, created_date FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, password_hash, created_date FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}
