// Package routes wires controllers, middleware and static assets into the
// application router.
package routes

import (
	"log/slog"
	"net/http"

	"blogsite/app/controllers"
	"blogsite/app/middleware"
	"blogsite/app/services"
	"blogsite/app/views"

	"github.com/gorilla/mux"
)

// Dependencies are the services and settings the router needs.
type Dependencies struct {
	Posts     *services.PostService
	Comments  *services.CommentService
	Auth      *services.AuthService
	Templates views.Templates
	Logger    *slog.Logger

	CookieName   string
	SecureCookie bool
	LoginURL     string
}

// New defines the application's routes and returns a router.
func New(deps Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	postController := controllers.NewPostController(deps.Posts, deps.Templates, logger)
	commentController := controllers.NewCommentController(deps.Comments, deps.Posts, deps.Templates, logger)
	authController := controllers.NewAuthController(deps.Auth, deps.CookieName, deps.SecureCookie, deps.Templates, logger)
	pageController := controllers.NewPageController(deps.Templates, logger)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Authenticate(deps.Auth, deps.CookieName))

	requireLogin := middleware.RequireLogin(deps.LoginURL)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireLogin(h)
	}

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/about/", pageController.About).Methods("GET")
	router.Handle("/drafts", protected(postController.Drafts)).Methods("GET")

	// Posts web endpoints
	router.Handle("/post/new/", protected(postController.New)).Methods("GET")
	router.Handle("/post/new/", protected(postController.Create)).Methods("POST")
	router.HandleFunc("/post/{id:[0-9]+}", postController.Show).Methods("GET")
	router.Handle("/post/{id:[0-9]+}/edit/", protected(postController.Edit)).Methods("GET")
	router.Handle("/post/{id:[0-9]+}/edit/", protected(postController.Update)).Methods("POST")
	router.Handle("/post/{id:[0-9]+}/renove", protected(postController.ConfirmDelete)).Methods("GET")
	router.Handle("/post/{id:[0-9]+}/renove", protected(postController.Delete)).Methods("POST")
	router.Handle("/post/{id:[0-9]+}/publish/", protected(postController.Publish)).Methods("POST")

	// Comments web endpoints
	router.HandleFunc("/post/{id:[0-9]+}/comment/", commentController.New).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}/comment/", commentController.Create).Methods("POST")
	router.Handle("/comment/{id:[0-9]+}/approve/", protected(commentController.Approve)).Methods("POST")
	router.Handle("/comment/{id:[0-9]+}/remove/", protected(commentController.Remove)).Methods("POST")

	// Session endpoints
	router.HandleFunc("/login/", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login/", authController.Login).Methods("POST")
	router.HandleFunc("/logout/", authController.Logout).Methods("POST")

	// API routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", authController.APILogin).Methods("POST")

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.Handle("/drafts", protected(postController.Drafts)).Methods("GET")
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.Handle("", protected(postController.Create)).Methods("POST")
	posts.Handle("/{id:[0-9]+}", protected(postController.Update)).Methods("PUT")
	posts.Handle("/{id:[0-9]+}", protected(postController.Delete)).Methods("DELETE")
	posts.Handle("/{id:[0-9]+}/publish", protected(postController.Publish)).Methods("POST")

	// Comments API endpoints
	posts.HandleFunc("/{id:[0-9]+}/comments", commentController.Create).Methods("POST")
	api.Handle("/comments/{id:[0-9]+}/approve", protected(commentController.Approve)).Methods("POST")
	api.Handle("/comments/{id:[0-9]+}", protected(commentController.Remove)).Methods("DELETE")

	// Unmatched paths skip router.Use, so the logger is applied here.
	router.NotFoundHandler = middleware.Logger(logger)(http.HandlerFunc(pageController.NotFound))

	return router
}
