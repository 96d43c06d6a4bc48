package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"blogsite/app/models"
	"blogsite/app/repositories"
)

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

type PostRepository struct {
	posts    map[int]*models.Post
	nextID   int
	comments *CommentRepository
	mutex    sync.RWMutex
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	posts    *PostRepository
	mutex    sync.RWMutex
}

// NewStore returns linked in-memory repositories: comments check their post
// exists and deleting a post removes its comments.
func NewStore() *repositories.Store {
	users := NewUserRepository()
	posts := NewPostRepository()
	comments := NewCommentRepository()
	posts.comments = comments
	comments.posts = posts
	return repositories.NewStore(users, posts, comments, nil)
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
	}
}

// UserRepository implementation
func (m *UserRepository) Create(_ context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// PostRepository implementation
func copyPost(post *models.Post) *models.Post {
	c := *post
	c.Comments = nil
	if post.PublishedDate != nil {
		published := *post.PublishedDate
		c.PublishedDate = &published
	}
	return &c
}

func (m *PostRepository) Create(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(_ context.Context, id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) ListPublished(_ context.Context, now time.Time) ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.IsPublished(now) })
	repositories.SortPublished(posts)
	return posts, nil
}

func (m *PostRepository) ListDrafts(_ context.Context) ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.PublishedDate == nil })
	repositories.SortDrafts(posts)
	return posts, nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, copyPost(post))
		}
	}
	return posts
}

func (m *PostRepository) Update(_ context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) Delete(_ context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	if m.comments != nil {
		m.comments.deleteByPost(id)
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) exists(id int) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.posts[id]
	return ok
}

// CommentRepository implementation
func (m *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	if m.posts != nil && !m.posts.exists(comment.PostID) {
		return fmt.Errorf("post %d: %w", comment.PostID, repositories.ErrNotFound)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	stored.Post = nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(_ context.Context, id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *comment
	return &found, nil
}

func (m *CommentRepository) Update(_ context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.comments[comment.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.PostID = existing.PostID
	stored := *comment
	stored.Post = nil
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(_ context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) ListByPost(_ context.Context, postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			found := *comment
			comments = append(comments, &found)
		}
	}
	repositories.SortComments(comments)
	return comments, nil
}

func (m *CommentRepository) deleteByPost(postID int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
