package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"blogsite/app/middleware"
	"blogsite/app/models"
	"blogsite/app/services"
	"blogsite/app/views"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
	postService    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, postService *services.PostService, templates views.Templates, logger *slog.Logger) *CommentController {
	return &CommentController{
		base:           newBase(templates, logger),
		commentService: commentService,
		postService:    postService,
	}
}

type commentPayload struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// New displays the form for commenting on a post
func (cc *CommentController) New(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		cc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	post, err := cc.postService.GetPost(r.Context(), postID)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	cc.render(w, r, "comment_form", http.StatusOK, &views.Page{
		Title: "New comment",
		Post:  post,
		Form:  map[string]string{},
	})
}

// Create adds an unapproved comment to a post. Anyone may comment.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		cc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	var form map[string]string
	if middleware.IsAPI(r) || strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload commentPayload
		if err := decodeJSON(r, &payload); err != nil {
			cc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		form = map[string]string{
			"author": strings.TrimSpace(payload.Author),
			"text":   strings.TrimSpace(payload.Text),
		}
	} else {
		if err := r.ParseForm(); err != nil {
			cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		form = formValues(r, "author", "text")
	}

	comment := &models.Comment{Author: form["author"], Text: form["text"]}
	if err := cc.commentService.AddComment(r.Context(), postID, comment); err != nil {
		if fields, invalid := validationFields(err); invalid && !middleware.WantsJSON(r) {
			cc.render(w, r, "comment_form", http.StatusOK, &views.Page{
				Title:  "New comment",
				Post:   comment.Post,
				Form:   form,
				Errors: fields,
			})
			return
		}
		cc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		cc.sendJSON(w, http.StatusCreated, comment)
		return
	}
	cc.redirect(w, r, postPath(postID))
}

// Approve marks a comment visible and returns to its post
func (cc *CommentController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		cc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	comment, err := cc.commentService.Approve(r.Context(), id)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		cc.sendJSON(w, http.StatusOK, comment)
		return
	}
	cc.redirect(w, r, postPath(comment.PostID))
}

// Remove deletes a comment and returns to the post it was on
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		cc.sendError(w, r, "Not Found", http.StatusNotFound)
		return
	}

	postID, err := cc.commentService.Remove(r.Context(), id)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	cc.redirect(w, r, postPath(postID))
}
