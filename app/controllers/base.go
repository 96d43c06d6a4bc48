package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"blogsite/app/middleware"
	"blogsite/app/models"
	"blogsite/app/repositories"
	"blogsite/app/views"

	"github.com/gorilla/mux"
)

// base holds what every controller needs to answer a request.
type base struct {
	templates views.Templates
	logger    *slog.Logger
}

func newBase(templates views.Templates, logger *slog.Logger) base {
	if logger == nil {
		logger = slog.Default()
	}
	return base{templates: templates, logger: logger}
}

// render executes the named page through the layout.
func (b *base) render(w http.ResponseWriter, r *http.Request, name string, status int, page *views.Page) {
	tmpl, ok := b.templates[name]
	if !ok {
		b.serverError(w, r, errors.New("unknown template "+name))
		return
	}
	if user, ok := middleware.CurrentUser(r.Context()); ok {
		page.User = user
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", page); err != nil {
		b.logger.ErrorContext(r.Context(), "template error", slog.String("template", name), slog.Any("error", err))
	}
}

// Helper methods for consistent response handling

func (b *base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.WantsJSON(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// handleError answers a failed service call. Validation errors are handled
// here only for JSON clients; HTML handlers re-render their form first.
func (b *base) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		b.sendError(w, r, "Not Found", http.StatusNotFound)
	case errors.As(err, &ve):
		b.sendJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	default:
		b.serverError(w, r, err)
	}
}

// redirect sends a browser to path with 302 Found.
func (b *base) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func postPath(id int) string {
	return "/post/" + strconv.Itoa(id)
}

// pathID reads a numeric route variable.
func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil && id > 0
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// formValues copies the trimmed values of fields from the parsed form.
func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = strings.TrimSpace(r.PostFormValue(f))
	}
	return values
}

func validationFields(err error) (map[string]string, bool) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
