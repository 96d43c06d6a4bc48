package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"blogsite/app/middleware"
	"blogsite/app/models"
	"blogsite/app/repositories"
	"blogsite/app/repositories/mock"
	"blogsite/app/services"
	"blogsite/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testApp struct {
	store    *repositories.Store
	clock    *services.FixedClock
	posts    *services.PostService
	comments *services.CommentService
	auth     *services.AuthService
	admin    *models.User
	router   *mux.Router
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	store := mock.NewStore()
	clock := &services.FixedClock{T: epoch}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templates := views.MustLoad()

	app := &testApp{
		store:    store,
		clock:    clock,
		posts:    services.NewPostService(store, clock),
		comments: services.NewCommentService(store, clock),
		auth:     services.NewAuthService(store.Users, "controller-test-secret", time.Hour, clock),
	}

	admin, err := app.auth.Register(context.Background(), "admin", "correct horse")
	require.NoError(t, err)
	app.admin = admin

	postController := NewPostController(app.posts, templates, logger)
	commentController := NewCommentController(app.comments, app.posts, templates, logger)
	authController := NewAuthController(app.auth, "session", false, templates, logger)

	// Register routes manually; access control is exercised in the routes package.
	router := mux.NewRouter()
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/drafts", postController.Drafts).Methods("GET")
	router.HandleFunc("/post/new/", postController.New).Methods("GET")
	router.HandleFunc("/post/new/", postController.Create).Methods("POST")
	router.HandleFunc("/post/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}/edit/", postController.Edit).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}/edit/", postController.Update).Methods("POST")
	router.HandleFunc("/post/{id:[0-9]+}/renove", postController.ConfirmDelete).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}/renove", postController.Delete).Methods("POST")
	router.HandleFunc("/post/{id:[0-9]+}/publish/", postController.Publish).Methods("POST")
	router.HandleFunc("/post/{id:[0-9]+}/comment/", commentController.New).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}/comment/", commentController.Create).Methods("POST")
	router.HandleFunc("/comment/{id:[0-9]+}/approve/", commentController.Approve).Methods("POST")
	router.HandleFunc("/comment/{id:[0-9]+}/remove/", commentController.Remove).Methods("POST")
	router.HandleFunc("/login/", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login/", authController.Login).Methods("POST")
	router.HandleFunc("/logout/", authController.Logout).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts", postController.Index).Methods("GET")
	api.HandleFunc("/posts", postController.Create).Methods("POST")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Update).Methods("PUT")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Delete).Methods("DELETE")
	api.HandleFunc("/posts/{id:[0-9]+}/publish", postController.Publish).Methods("POST")
	api.HandleFunc("/posts/{id:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}/approve", commentController.Approve).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}", commentController.Remove).Methods("DELETE")
	api.HandleFunc("/login", authController.APILogin).Methods("POST")

	app.router = router
	return app
}

// signIn marks the request as coming from the admin user.
func (a *testApp) signIn(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), a.admin))
}

func (a *testApp) createPost(t *testing.T, title string, publish bool) *models.Post {
	t.Helper()
	ctx := context.Background()
	post := &models.Post{AuthorID: a.admin.ID, Title: title, Text: "text of " + title}
	require.NoError(t, a.posts.CreatePost(ctx, post))
	if publish {
		published, err := a.posts.PublishPost(ctx, post.ID)
		require.NoError(t, err)
		post = published
	}
	return post
}
