package repositories

import (
	"context"
	"errors"
	"time"

	"blogsite/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the stored form of a user; models.User hides the hash from JSON.
type userRecord struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedDate  time.Time `json:"created_date"`
}

func (u userRecord) toModel() *models.User {
	return &models.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedDate:  u.CreatedDate,
	}
}

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a new user, failing with ErrDuplicate when the username is taken.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		err := exists(txn, usernameKey(user.Username))
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		data, err := marshalEntity(userRecord{
			ID:           user.ID,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			CreatedDate:  user.CreatedDate,
		})
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return setInt(txn, usernameKey(user.Username), user.ID)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// GetByUsername retrieves a user by username
func (r *BadgerUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getInt(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}
