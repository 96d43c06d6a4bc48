package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blogsite/app/middleware"
	"blogsite/app/services"
	"blogsite/app/views"
)

// AuthController signs users in and out.
type AuthController struct {
	base
	authService  *services.AuthService
	cookieName   string
	secureCookie bool
}

// NewAuthController creates a new AuthController. The session token is kept
// in the cookieName cookie; secure marks it HTTPS-only.
func NewAuthController(authService *services.AuthService, cookieName string, secure bool, templates views.Templates, logger *slog.Logger) *AuthController {
	return &AuthController{
		base:         newBase(templates, logger),
		authService:  authService,
		cookieName:   cookieName,
		secureCookie: secure,
	}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginForm displays the login form
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, "login", http.StatusOK, &views.Page{
		Title: "Log in",
		Form:  map[string]string{},
		Next:  middleware.SafeNext(r.URL.Query().Get("next"), "/"),
	})
}

// Login checks the submitted credentials, sets the session cookie and
// redirects to the local "next" path.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	next := middleware.SafeNext(r.PostFormValue("next"), "/")

	user, err := ac.authService.Authenticate(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.render(w, r, "login", http.StatusOK, &views.Page{
			Title: "Log in",
			Form:  map[string]string{"username": username},
			Error: "Please enter a correct username and password.",
			Next:  next,
		})
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	token, expires, err := ac.authService.IssueToken(user)
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ac.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	ac.logger.InfoContext(r.Context(), "user logged in", slog.String("username", user.Username))
	ac.redirect(w, r, next)
}

// APILogin exchanges credentials for a bearer token
func (ac *AuthController) APILogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		ac.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := ac.authService.Authenticate(r.Context(), payload.Username, payload.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.sendError(w, r, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	token, expires, err := ac.authService.IssueToken(user)
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	ac.sendJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
		"username":   user.Username,
	})
}

// Logout clears the session cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ac.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	ac.redirect(w, r, "/")
}
