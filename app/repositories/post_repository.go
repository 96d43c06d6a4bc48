package repositories

import (
	"context"
	"fmt"
	"time"

	"blogsite/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// storedPost strips the comments, which live under their own keys.
func storedPost(post *models.Post) *models.Post {
	stored := *post
	stored.Comments = nil
	return &stored
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		data, err := marshalEntity(storedPost(post))
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublished retrieves posts whose publish date is at or before now
func (r *BadgerPostRepository) ListPublished(ctx context.Context, now time.Time) ([]*models.Post, error) {
	posts, err := r.scan(ctx, func(p *models.Post) bool {
		return p.IsPublished(now)
	})
	if err != nil {
		return nil, err
	}
	SortPublished(posts)
	return posts, nil
}

// ListDrafts retrieves posts that have never been published
func (r *BadgerPostRepository) ListDrafts(ctx context.Context) ([]*models.Post, error) {
	posts, err := r.scan(ctx, func(p *models.Post) bool {
		return p.PublishedDate == nil
	})
	if err != nil {
		return nil, err
	}
	SortDrafts(posts)
	return posts, nil
}

func (r *BadgerPostRepository) scan(ctx context.Context, keep func(*models.Post) bool) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		if err := exists(txn, key); err != nil {
			return err
		}

		data, err := marshalEntity(storedPost(post))
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID together with its comments
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(ctx, r.db, func(txn *badger.Txn) error {
		key := postKey(id)
		if err := exists(txn, key); err != nil {
			return err
		}

		commentKeys, commentIDs, err := collectComments(txn, id)
		if err != nil {
			return err
		}
		for i, ck := range commentKeys {
			if err := txn.Delete(ck); err != nil {
				return err
			}
			if err := txn.Delete(commentIndexKey(commentIDs[i])); err != nil {
				return err
			}
		}

		return txn.Delete(key)
	})
}

// collectComments gathers the keys and ids of a post's comments before any are deleted.
func collectComments(txn *badger.Txn, postID int) ([][]byte, []int, error) {
	var keys [][]byte
	var ids []int

	opts := badger.DefaultIteratorOptions
	opts.Prefix = commentPrefix(postID)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		var comment models.Comment
		err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		keys = append(keys, item.KeyCopy(nil))
		ids = append(ids, comment.ID)
	}
	return keys, ids, nil
}
