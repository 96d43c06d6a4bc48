package services

import (
	"context"
	"testing"
	"time"

	"blogsite/app/models"
	"blogsite/app/repositories"
	"blogsite/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *repositories.Store
	clock    *FixedClock
	posts    *PostService
	comments *CommentService
	author   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mock.NewStore()
	clock := &FixedClock{T: epoch}

	author := &models.User{Username: "admin", CreatedDate: epoch}
	require.NoError(t, store.Users.Create(context.Background(), author))

	return &fixture{
		store:    store,
		clock:    clock,
		posts:    NewPostService(store, clock),
		comments: NewCommentService(store, clock),
		author:   author,
	}
}

func (f *fixture) draft(t *testing.T, title string) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: f.author.ID, Title: title, Text: "body of " + title}
	require.NoError(t, f.posts.CreatePost(context.Background(), post))
	return post
}
